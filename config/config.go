// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by Validate for out-of-range settings.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Population PopulationConfig `yaml:"population"`
	Rocket     RocketConfig     `yaml:"rocket"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Parallel   ParallelConfig   `yaml:"parallel"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`
	Trails     TrailsConfig     `yaml:"trails"`
	Storage    StorageConfig    `yaml:"storage"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds world dimensions and the fixed start and target points.
// World can be larger than the screen; camera handles the viewport.
type WorldConfig struct {
	Width   int     `yaml:"width"`  // 0 = use screen width
	Height  int     `yaml:"height"` // 0 = use screen height
	StartX  float64 `yaml:"start_x"`
	StartY  float64 `yaml:"start_y"`
	TargetX float64 `yaml:"target_x"`
	TargetY float64 `yaml:"target_y"`

	TargetRadius float64 `yaml:"target_radius"`
}

// PopulationConfig holds generation size and length.
type PopulationConfig struct {
	RocketCount int `yaml:"rocket_count"`
	Lifetime    int `yaml:"lifetime"` // ticks per generation
}

// RocketConfig holds rocket kinematics and display size.
type RocketConfig struct {
	Force  float64 `yaml:"force"`  // step length per tick
	Width  float64 `yaml:"width"`  // display only
	Length float64 `yaml:"length"` // display only
}

// MutationConfig holds mutation parameters.
type MutationConfig struct {
	Chance float64 `yaml:"chance"`
	Force  float64 `yaml:"force"`
}

// ParallelConfig controls parallel rocket stepping.
type ParallelConfig struct {
	Threshold int `yaml:"threshold"` // 0 = always sequential
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsEvery          int `yaml:"stats_every"`           // generations between log lines
	PerfCollectorWindow int `yaml:"perf_collector_window"` // ticks averaged by the perf collector
	HallOfFameSize      int `yaml:"hall_of_fame_size"`
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	BreakthroughMultiplier float64 `yaml:"breakthrough_multiplier"` // best >= mean of previous bests * this
	StagnationGenerations  int     `yaml:"stagnation_generations"`  // generations without a new record
	ConvergenceCV          float64 `yaml:"convergence_cv"`          // fitness std/mean below this
}

// TrailsConfig holds exhaust trail parameters.
type TrailsConfig struct {
	Enabled   bool `yaml:"enabled"`
	MaxAge    int  `yaml:"max_age"`    // ticks a trail point lives
	EmitEvery int  `yaml:"emit_every"` // ticks between trail points
}

// StorageConfig selects the run archive backend.
type StorageConfig struct {
	Backend string `yaml:"backend"` // "", "memory" or "sqlite"
	Path    string `yaml:"path"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
	WorldW32  float32 // Effective world width as float32
	WorldH32  float32 // Effective world height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate reports the first setting that cannot produce a running simulation.
func (c *Config) Validate() error {
	switch {
	case c.Population.RocketCount <= 0:
		return fmt.Errorf("%w: population.rocket_count must be positive, got %d", ErrInvalid, c.Population.RocketCount)
	case c.Population.Lifetime <= 0:
		return fmt.Errorf("%w: population.lifetime must be positive, got %d", ErrInvalid, c.Population.Lifetime)
	case c.Mutation.Chance < 0 || c.Mutation.Chance > 1:
		return fmt.Errorf("%w: mutation.chance must be in [0,1], got %v", ErrInvalid, c.Mutation.Chance)
	case c.Mutation.Force < 0:
		return fmt.Errorf("%w: mutation.force must be non-negative, got %v", ErrInvalid, c.Mutation.Force)
	case c.Rocket.Force <= 0:
		return fmt.Errorf("%w: rocket.force must be positive, got %v", ErrInvalid, c.Rocket.Force)
	case c.Parallel.Threshold < 0:
		return fmt.Errorf("%w: parallel.threshold must be non-negative, got %d", ErrInvalid, c.Parallel.Threshold)
	}
	switch c.Storage.Backend {
	case "", "memory", "sqlite":
	default:
		return fmt.Errorf("%w: unknown storage.backend %q", ErrInvalid, c.Storage.Backend)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW32 = float32(worldW)
	c.Derived.WorldH32 = float32(worldH)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
