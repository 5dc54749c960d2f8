package telemetry

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"

	"github.com/pthm-cable/rockets/genetics"
	"github.com/pthm-cable/rockets/sim"
)

// HallEntry is the best rocket of one generation.
type HallEntry struct {
	Generation int
	RocketID   uint32
	Fitness    float64
	Distance   float64
	Chromosome *genetics.Chromosome
}

// HallOfFame keeps the fittest generation winners of a run, sorted by
// fitness, so they can be archived or used to seed a new run.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
}

// NewHallOfFame creates a new hall of fame with the given capacity.
func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider evaluates the winner of a finished generation for entry.
// Returns true if it was added to the hall.
func (hof *HallOfFame) Consider(result sim.GenerationResult) bool {
	if result.BestIndex < 0 || result.Best == nil {
		return false
	}
	entry := HallEntry{
		Generation: result.Generation,
		RocketID:   result.BestID,
		Fitness:    result.Fitness[result.BestIndex],
		Distance:   result.BestDistance,
		Chromosome: result.Best.Clone(),
	}
	var added bool
	hof.entries, added = hof.insertEntry(hof.entries, entry)
	return added
}

// insertEntry adds an entry to the hall, maintaining sorted order by fitness.
// If the hall is full, the lowest-fitness entry is removed.
func (hof *HallOfFame) insertEntry(hall []HallEntry, entry HallEntry) ([]HallEntry, bool) {
	// Find insertion point (sorted descending by fitness, earlier generations first on ties)
	idx := sort.Search(len(hall), func(i int) bool {
		return hall[i].Fitness < entry.Fitness
	})

	// If hall is full and entry would be last (lowest), skip it
	if len(hall) >= hof.maxSize && idx >= hof.maxSize {
		return hall, false
	}

	hall = append(hall, HallEntry{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry

	if len(hall) > hof.maxSize {
		hall = hall[:hof.maxSize]
	}
	return hall, true
}

// Sample selects a chromosome from the hall using tournament selection.
// Returns nil if the hall is empty.
func (hof *HallOfFame) Sample(rng *rand.Rand) *genetics.Chromosome {
	if len(hof.entries) == 0 {
		return nil
	}

	// Tournament selection with k=3
	const tournamentSize = 3
	var best *HallEntry
	for i := 0; i < tournamentSize; i++ {
		candidate := &hof.entries[rng.Intn(len(hof.entries))]
		if best == nil || candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	return best.Chromosome.Clone()
}

// Chromosomes returns copies of all chromosomes in fitness order.
func (hof *HallOfFame) Chromosomes() []*genetics.Chromosome {
	out := make([]*genetics.Chromosome, len(hof.entries))
	for i, e := range hof.entries {
		out[i] = e.Chromosome.Clone()
	}
	return out
}

// Entries returns a copy of the hall in fitness order.
func (hof *HallOfFame) Entries() []HallEntry {
	out := make([]HallEntry, len(hof.entries))
	copy(out, hof.entries)
	return out
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int {
	return len(hof.entries)
}

// TopFitness returns the highest fitness in the hall, or 0 if it is empty.
func (hof *HallOfFame) TopFitness() float64 {
	if len(hof.entries) == 0 {
		return 0
	}
	return hof.entries[0].Fitness
}

// hallEntryJSON is the JSON-serializable representation of a hall entry.
type hallEntryJSON struct {
	Generation int       `json:"generation"`
	RocketID   uint32    `json:"rocket_id"`
	Fitness    float64   `json:"fitness"`
	Distance   float64   `json:"distance"`
	Genes      []float64 `json:"genes"`
}

// MarshalJSON serializes the hall of fame to JSON.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	export := make([]hallEntryJSON, len(hof.entries))
	for i, e := range hof.entries {
		export[i] = hallEntryJSON{
			Generation: e.Generation,
			RocketID:   e.RocketID,
			Fitness:    e.Fitness,
			Distance:   e.Distance,
			Genes:      e.Chromosome.Genes(),
		}
	}
	return json.MarshalIndent(export, "", "  ")
}

// LoadHallOfFameFromFile reads a hall of fame JSON file written by MarshalJSON.
func LoadHallOfFameFromFile(path string) (*HallOfFame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hall of fame: %w", err)
	}

	var raw []hallEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing hall of fame JSON: %w", err)
	}

	hof := NewHallOfFame(len(raw))
	for i, ej := range raw {
		c, err := genetics.FromGenes(ej.Genes)
		if err != nil {
			return nil, fmt.Errorf("hall of fame entry %d: %w", i, err)
		}
		hof.entries, _ = hof.insertEntry(hof.entries, HallEntry{
			Generation: ej.Generation,
			RocketID:   ej.RocketID,
			Fitness:    ej.Fitness,
			Distance:   ej.Distance,
			Chromosome: c,
		})
	}
	return hof, nil
}
