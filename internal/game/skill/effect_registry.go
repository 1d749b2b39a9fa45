package skill

import (
	"fmt"
	"strconv"
	"strings"
)

// effectRegistry maps effect name → factory function.
var effectRegistry = map[string]func(params map[string]string) Effect{}

// RegisterEffect registers an effect factory by name.
func RegisterEffect(name string, factory func(params map[string]string) Effect) {
	effectRegistry[name] = factory
}

// CreateEffect creates an effect by name using the registered factory.
// Returns error if name is not registered.
func CreateEffect(name string, params map[string]string) (Effect, error) {
	factory, ok := effectRegistry[name]
	if !ok {
		return nil, fmt.Errorf("unknown effect type: %s", name)
	}
	return factory(params), nil
}

// IsRegistered reports whether name has a factory.
func IsRegistered(name string) bool {
	_, ok := effectRegistry[name]
	return ok
}

func init() {
	RegisterEffect("Strike", NewStrikeEffect)
	RegisterEffect("Chain", NewChainEffect)
	RegisterEffect("Burst", NewBurstEffect)
	RegisterEffect("Periodic", NewPeriodicEffect)
	RegisterEffect("SelfBuff", NewSelfBuffEffect)
	RegisterEffect("Dash", NewDashEffect)
	RegisterEffect("Backstab", NewBackstabEffect)
	RegisterEffect("Projectile", NewProjectileEffect)
}

// critMode controls critical resolution of an effect's hits.
type critMode int8

const (
	critNone   critMode = iota // never critical
	critRoll                   // one roll per hit against criticalChance
	critAlways                 // flagged critical, no critical multiplier
)

func parseCrit(s string) critMode {
	switch strings.ToLower(s) {
	case "true", "roll":
		return critRoll
	case "always":
		return critAlways
	default:
		return critNone
	}
}

func paramFloat(params map[string]string, key string, def float64) float64 {
	v, ok := params[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func paramInt(params map[string]string, key string, def int) int {
	v, ok := params[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func paramBool(params map[string]string, key string, def bool) bool {
	v, ok := params[key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func paramString(params map[string]string, key, def string) string {
	if v, ok := params[key]; ok && v != "" {
		return v
	}
	return def
}
