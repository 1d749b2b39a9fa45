package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/babeltower/internal/ai"
)

// Simhost holds all configuration for the combat simulation host.
type Simhost struct {
	LogLevel string `yaml:"log_level"`

	// Simulation
	TickRate     int     `yaml:"tick_rate"`     // ticks per second
	CellSize     float64 `yaml:"cell_size"`     // spatial grid cell edge, world units
	CorpseDelay  float64 `yaml:"corpse_delay"`  // seconds a dead entity stays in the world
	SkillCatalog string  `yaml:"skill_catalog"` // optional path, embedded catalog if empty

	AI ai.Params `yaml:"ai"`

	Metrics  MetricsConfig  `yaml:"metrics"`
	NATS     NATSConfig     `yaml:"nats"`
	Database DatabaseConfig `yaml:"database"`

	Encounter Encounter `yaml:"encounter"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// NATSConfig controls combat event publishing to NATS.
type NATSConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Source  string `yaml:"source"` // envelope source tag
}

// DatabaseConfig holds PostgreSQL connection parameters for the reward ledger.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Encounter is the initial population spawned at startup.
type Encounter struct {
	Players  []PlayerSpawn  `yaml:"players"`
	Monsters []MonsterSpawn `yaml:"monsters"`
}

// PlayerSpawn describes one player to spawn.
type PlayerSpawn struct {
	Name  string  `yaml:"name"`
	Class string  `yaml:"class"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
}

// MonsterSpawn describes a spawn point kept populated with monsters.
type MonsterSpawn struct {
	Name       string  `yaml:"name"`
	Tier       string  `yaml:"tier"`
	Level      int     `yaml:"level"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Count      int     `yaml:"count"`       // defaults to 1
	Radius     float64 `yaml:"radius"`      // scatter around x,y
	RespawnMin float64 `yaml:"respawn_min"` // seconds, 0 = no respawn
	RespawnMax float64 `yaml:"respawn_max"`
}

// TickInterval returns the wall-clock duration of one simulation tick.
func (c Simhost) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// Validate checks values the simulation cannot run with.
func (c Simhost) Validate() error {
	var errs []error
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick_rate must be positive, got %d", c.TickRate))
	}
	if c.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("cell_size must be positive, got %g", c.CellSize))
	}
	if c.CorpseDelay < 0 {
		errs = append(errs, fmt.Errorf("corpse_delay must not be negative, got %g", c.CorpseDelay))
	}
	if c.AI.LeashFactor < 1 {
		errs = append(errs, fmt.Errorf("ai.leash_factor must be at least 1, got %g", c.AI.LeashFactor))
	}
	if c.Metrics.Enabled && c.Metrics.Address == "" {
		errs = append(errs, errors.New("metrics.address is required when metrics are enabled"))
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, errors.New("nats.url is required when nats is enabled"))
	}
	return errors.Join(errs...)
}

// DefaultSimhost returns Simhost config with sensible defaults.
func DefaultSimhost() Simhost {
	return Simhost{
		LogLevel:    "info",
		TickRate:    20,
		CellSize:    4,
		CorpseDelay: 2,
		AI:          ai.DefaultParams(),
		Metrics: MetricsConfig{
			Enabled: true,
			Address: ":9090",
		},
		NATS: NATSConfig{
			URL:    "nats://127.0.0.1:4222",
			Source: "simhost",
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "babeltower",
			Password: "babeltower",
			DBName:   "babeltower",
			SSLMode:  "disable",
		},
		Encounter: Encounter{
			Players: []PlayerSpawn{
				{Name: "Aldric", Class: "warrior", X: 0, Y: 0},
			},
			Monsters: []MonsterSpawn{
				{Name: "Goblin", Tier: "normal", Level: 1, X: 8, Y: 0, Count: 2, Radius: 2, RespawnMin: 10, RespawnMax: 20},
				{Name: "Goblin", Tier: "normal", Level: 1, X: -8, Y: 2, Count: 1, RespawnMin: 10, RespawnMax: 20},
				{Name: "Orc Chieftain", Tier: "elite", Level: 3, X: 0, Y: 12, Count: 1, RespawnMin: 60, RespawnMax: 90},
			},
		},
	}
}

// LoadSimhost loads simhost config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimhost(path string) (Simhost, error) {
	cfg := DefaultSimhost()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}
