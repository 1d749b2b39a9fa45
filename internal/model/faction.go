package model

// Faction groups combatants for targeting: casters only damage the opposing faction.
type Faction int8

const (
	// FactionPlayer - player-aligned entities
	FactionPlayer Faction = iota
	// FactionMonster - monster-aligned entities
	FactionMonster
)

// String returns human-readable faction name
func (f Faction) String() string {
	switch f {
	case FactionPlayer:
		return "player"
	case FactionMonster:
		return "monster"
	default:
		return "unknown"
	}
}

// Opposes reports whether other is a hostile faction.
func (f Faction) Opposes(other Faction) bool {
	return f != other
}
