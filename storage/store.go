// Package storage archives runs, per-generation summaries and halls of fame.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store defines persistence operations for simulation runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	ListRuns(ctx context.Context) ([]Run, error)
	SaveGeneration(ctx context.Context, record GenerationRecord) error
	GetGenerations(ctx context.Context, runID string) ([]GenerationRecord, bool, error)
	SaveHallOfFame(ctx context.Context, runID string, entries []HallRecord) error
	GetHallOfFame(ctx context.Context, runID string) ([]HallRecord, bool, error)
}

// Run describes one simulation run.
type Run struct {
	ID        string    `json:"id"`
	Seed      int64     `json:"seed"`
	StartedAt time.Time `json:"started_at"`

	RocketCount    int     `json:"rocket_count"`
	Lifetime       int     `json:"lifetime"`
	MutationChance float64 `json:"mutation_chance"`
	MutationForce  float64 `json:"mutation_force"`
}

// GenerationRecord summarises one finished generation of a run.
type GenerationRecord struct {
	RunID        string  `json:"run_id"`
	Generation   int     `json:"generation"`
	BestFitness  float64 `json:"best_fitness"`
	MeanFitness  float64 `json:"mean_fitness"`
	BestDistance float64 `json:"best_distance"`
	Undefined    int     `json:"undefined"`
	PoolSize     int     `json:"pool_size"`
}

// HallRecord is one archived hall of fame entry.
type HallRecord struct {
	Rank       int       `json:"rank"`
	Generation int       `json:"generation"`
	RocketID   uint32    `json:"rocket_id"`
	Fitness    float64   `json:"fitness"`
	Distance   float64   `json:"distance"`
	Genes      []float64 `json:"genes"`
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.New().String()
}
