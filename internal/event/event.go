package event

import "github.com/udisondev/babeltower/internal/vec"

// Kind identifies a combat notification.
type Kind int32

const (
	// KindHealthChanged - entity HP changed (Value = new HP)
	KindHealthChanged Kind = iota
	// KindManaChanged - entity MP changed (Value = new MP)
	KindManaChanged
	// KindDamageTaken - entity took a hit (Value = amount, Critical = crit flag)
	KindDamageTaken
	// KindDeath - entity died; fires at most once per life
	KindDeath
	// KindEffectSpawned - cast/hit VFX hook (Effect = kind, Position = where)
	KindEffectSpawned
	// KindMonsterKilled - reward hook for the progression system (Exp, Gold)
	KindMonsterKilled
	// KindStatusChanged - self-buff flag toggled (Status, Active)
	KindStatusChanged
	// KindLevelUp - player reached a new level (Value = level)
	KindLevelUp
)

// String returns human-readable kind name
func (k Kind) String() string {
	switch k {
	case KindHealthChanged:
		return "health_changed"
	case KindManaChanged:
		return "mana_changed"
	case KindDamageTaken:
		return "damage_taken"
	case KindDeath:
		return "death"
	case KindEffectSpawned:
		return "effect_spawned"
	case KindMonsterKilled:
		return "monster_killed"
	case KindStatusChanged:
		return "status_changed"
	case KindLevelUp:
		return "level_up"
	default:
		return "unknown"
	}
}

// Effect kinds carried by KindEffectSpawned.
const (
	EffectCast = "cast"
	EffectHit  = "hit"
)

// Event is a single combat notification. Only the fields relevant to Kind are set.
type Event struct {
	Kind       Kind     `json:"kind"`
	EntityID   uint32   `json:"entity_id,omitempty"`
	EntityName string   `json:"entity_name,omitempty"`
	Faction    string   `json:"faction,omitempty"`
	Value      float64  `json:"value,omitempty"`
	Critical   bool     `json:"critical,omitempty"`
	Effect     string   `json:"effect,omitempty"`
	Skill      string   `json:"skill,omitempty"`
	Position   vec.Vec2 `json:"position"`
	Status     string   `json:"status,omitempty"`
	Active     bool     `json:"active,omitempty"`
	Exp        int      `json:"exp,omitempty"`
	Gold       int      `json:"gold,omitempty"`
}

// Sink accepts published events.
type Sink interface {
	Publish(ev Event)
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Publish(Event) {}
