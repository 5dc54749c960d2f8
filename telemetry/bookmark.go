package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkBreakthrough  BookmarkType = "breakthrough"
	BookmarkStagnation    BookmarkType = "stagnation"
	BookmarkConverged     BookmarkType = "converged"
	BookmarkTargetReached BookmarkType = "target_reached"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Generation  int          `csv:"generation"`
	Tick        int64        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"generation", b.Generation,
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkThresholds configures when bookmarks fire.
type BookmarkThresholds struct {
	BreakthroughMultiplier float64
	StagnationGenerations  int
	ConvergenceCV          float64
	TargetRadius           float64
}

// DefaultBookmarkThresholds matches the embedded config defaults.
func DefaultBookmarkThresholds() BookmarkThresholds {
	return BookmarkThresholds{
		BreakthroughMultiplier: 1.5,
		StagnationGenerations:  25,
		ConvergenceCV:          0.02,
		TargetRadius:           10,
	}
}

// BookmarkDetector detects interesting generations in a run.
type BookmarkDetector struct {
	thresholds BookmarkThresholds

	// Rolling history of best fitness (circular buffer)
	history     []float64
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	record          float64
	hasRecord       bool
	sinceRecord     int  // generations since the record improved
	stagnantFired   bool // stagnation fires once per plateau
	convergedFired  bool // converged fires once until the population diverges
	targetReachedAt int  // generation of the first target_reached, -1 if none
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, thresholds BookmarkThresholds) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3 // minimum for a meaningful rolling mean
	}
	return &BookmarkDetector{
		thresholds:      thresholds,
		history:         make([]float64, historySize),
		historySize:     historySize,
		targetReachedAt: -1,
	}
}

// Check analyzes the latest generation and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats GenerationStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkBreakthrough(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkStagnation(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkConverged(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkTargetReached(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats.BestFitness)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(best float64) {
	bd.history[bd.historyIdx] = best
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []float64 {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkBreakthrough(stats GenerationStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	avg := stat.Mean(history, nil)
	if avg <= 0 {
		return nil
	}

	if stats.BestFitness >= avg*bd.thresholds.BreakthroughMultiplier {
		return &Bookmark{
			Type:        BookmarkBreakthrough,
			Generation:  stats.Generation,
			Tick:        stats.Tick,
			Description: fmt.Sprintf("Best fitness %.4g is %.1fx rolling mean (%.4g)", stats.BestFitness, stats.BestFitness/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStagnation(stats GenerationStats) *Bookmark {
	if !bd.hasRecord || stats.BestFitness > bd.record {
		bd.record = stats.BestFitness
		bd.hasRecord = true
		bd.sinceRecord = 0
		bd.stagnantFired = false
		return nil
	}

	bd.sinceRecord++
	if bd.stagnantFired || bd.thresholds.StagnationGenerations <= 0 || bd.sinceRecord < bd.thresholds.StagnationGenerations {
		return nil
	}

	bd.stagnantFired = true
	return &Bookmark{
		Type:        BookmarkStagnation,
		Generation:  stats.Generation,
		Tick:        stats.Tick,
		Description: fmt.Sprintf("No improvement on record %.4g for %d generations", bd.record, bd.sinceRecord),
	}
}

func (bd *BookmarkDetector) checkConverged(stats GenerationStats) *Bookmark {
	if stats.Rockets < 2 {
		return nil
	}
	cv := stats.CoefficientOfVariation()
	if cv >= bd.thresholds.ConvergenceCV {
		bd.convergedFired = false
		return nil
	}
	if bd.convergedFired {
		return nil
	}

	bd.convergedFired = true
	return &Bookmark{
		Type:        BookmarkConverged,
		Generation:  stats.Generation,
		Tick:        stats.Tick,
		Description: fmt.Sprintf("Fitness spread collapsed: std/mean %.4f", cv),
	}
}

func (bd *BookmarkDetector) checkTargetReached(stats GenerationStats) *Bookmark {
	if bd.targetReachedAt >= 0 || stats.Rockets == stats.Undefined {
		return nil
	}
	if stats.BestDistance > bd.thresholds.TargetRadius {
		return nil
	}

	bd.targetReachedAt = stats.Generation
	return &Bookmark{
		Type:        BookmarkTargetReached,
		Generation:  stats.Generation,
		Tick:        stats.Tick,
		Description: fmt.Sprintf("Best rocket finished %.2f from the target", stats.BestDistance),
	}
}
