package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/rockets/genetics"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the genomes of one generation so a run can be resumed
// from it.
type Snapshot struct {
	Version int    `json:"version"`
	RunID   string `json:"run_id"`
	RNGSeed int64  `json:"rng_seed"`

	StartX  float64 `json:"start_x"`
	StartY  float64 `json:"start_y"`
	TargetX float64 `json:"target_x"`
	TargetY float64 `json:"target_y"`

	Generation int   `json:"generation"`
	Tick       int64 `json:"tick"`

	Rockets []RocketState `json:"rockets"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// RocketState holds one rocket's genome.
type RocketState struct {
	ID    uint32    `json:"id"`
	Genes []float64 `json:"genes"`
}

// NewRocketStates copies chromosomes into snapshot form. ids may be nil,
// in which case rockets are numbered in order.
func NewRocketStates(ids []uint32, chromosomes []*genetics.Chromosome) []RocketState {
	states := make([]RocketState, len(chromosomes))
	for i, c := range chromosomes {
		id := uint32(i)
		if i < len(ids) {
			id = ids[i]
		}
		states[i] = RocketState{ID: id, Genes: c.Genes()}
	}
	return states
}

// Chromosomes rebuilds the snapshot's chromosomes in rocket order.
func (s *Snapshot) Chromosomes() ([]*genetics.Chromosome, error) {
	out := make([]*genetics.Chromosome, len(s.Rockets))
	for i, r := range s.Rockets {
		c, err := genetics.FromGenes(r.Genes)
		if err != nil {
			return nil, fmt.Errorf("snapshot rocket %d: %w", r.ID, err)
		}
		out[i] = c
	}
	return out, nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_gen%d", snapshot.Generation)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_gen%d_%s", snapshot.Generation, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}
