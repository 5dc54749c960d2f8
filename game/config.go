package game

import (
	"github.com/pthm-cable/rockets/config"
	"github.com/pthm-cable/rockets/telemetry"
)

// Options configures a Game beyond what config.yaml holds.
type Options struct {
	Seed           int64
	LogStats       bool
	SnapshotDir    string // written on every bookmark when set
	OutputDir      string // CSV logs, config and hall of fame when set
	Headless       bool
	StepsPerUpdate int

	// StoreBackend overrides storage.backend from config. Empty falls back
	// to the config; an empty config backend disables the archive.
	StoreBackend string
	StorePath    string

	// SnapshotPath seeds generation 0 from a saved snapshot.
	SnapshotPath string
	// SeedHallPath seeds generation 0 from a saved hall of fame.
	SeedHallPath string

	// Config overrides the global config when set.
	Config *config.Config
	// StatsCallback is called with every finished generation's stats.
	StatsCallback func(telemetry.GenerationStats)
}
