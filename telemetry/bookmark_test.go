package telemetry

import "testing"

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

// spread returns stats with a wide fitness distribution so that the
// converged bookmark stays quiet.
func spread(generation int, best float64) GenerationStats {
	return GenerationStats{
		Generation:   generation,
		Rockets:      100,
		BestFitness:  best,
		MeanFitness:  best / 2,
		StdFitness:   best / 4,
		BestDistance: 1 / best,
	}
}

func TestBookmarkDetector_Breakthrough(t *testing.T) {
	bd := NewBookmarkDetector(10, DefaultBookmarkThresholds())

	for i := 0; i < 5; i++ {
		if bms := bd.Check(spread(i, 0.01)); hasBookmark(bms, BookmarkBreakthrough) {
			t.Fatalf("generation %d: unexpected breakthrough on flat history", i)
		}
	}

	bookmarks := bd.Check(spread(5, 0.02)) // 2x the rolling mean
	if !hasBookmark(bookmarks, BookmarkBreakthrough) {
		t.Error("expected breakthrough bookmark")
	}
}

func TestBookmarkDetector_NoBreakthroughWithoutHistory(t *testing.T) {
	bd := NewBookmarkDetector(10, DefaultBookmarkThresholds())

	bd.Check(spread(0, 0.01))
	if bms := bd.Check(spread(1, 1)); hasBookmark(bms, BookmarkBreakthrough) {
		t.Error("breakthrough needs at least three generations of history")
	}
}

func TestBookmarkDetector_Stagnation(t *testing.T) {
	th := DefaultBookmarkThresholds()
	th.StagnationGenerations = 4
	bd := NewBookmarkDetector(10, th)

	bd.Check(spread(0, 0.05))

	fired := 0
	for i := 1; i <= 10; i++ {
		if hasBookmark(bd.Check(spread(i, 0.04)), BookmarkStagnation) {
			fired++
			if i != 4 {
				t.Errorf("stagnation fired at generation %d, want 4", i)
			}
		}
	}
	if fired != 1 {
		t.Errorf("stagnation fired %d times, want once per plateau", fired)
	}

	// A new record resets the plateau
	bd.Check(spread(11, 0.06))
	for i := 12; i <= 15; i++ {
		if hasBookmark(bd.Check(spread(i, 0.06)), BookmarkStagnation) && i != 15 {
			t.Errorf("stagnation fired early at generation %d", i)
		}
	}
}

func TestBookmarkDetector_Converged(t *testing.T) {
	bd := NewBookmarkDetector(10, DefaultBookmarkThresholds())

	tight := GenerationStats{Generation: 0, Rockets: 100, BestFitness: 0.1, MeanFitness: 0.1, StdFitness: 0.0001, BestDistance: 10.5}
	if !hasBookmark(bd.Check(tight), BookmarkConverged) {
		t.Fatal("expected converged bookmark")
	}

	tight.Generation = 1
	if hasBookmark(bd.Check(tight), BookmarkConverged) {
		t.Error("converged should not repeat while the population stays converged")
	}

	bd.Check(spread(2, 0.1))
	tight.Generation = 3
	if !hasBookmark(bd.Check(tight), BookmarkConverged) {
		t.Error("converged should fire again after the population diverged")
	}
}

func TestBookmarkDetector_TargetReached(t *testing.T) {
	bd := NewBookmarkDetector(10, DefaultBookmarkThresholds())

	far := spread(0, 0.01) // 100 away
	if hasBookmark(bd.Check(far), BookmarkTargetReached) {
		t.Error("target_reached fired for a distant rocket")
	}

	near := spread(1, 0.2) // 5 away
	if !hasBookmark(bd.Check(near), BookmarkTargetReached) {
		t.Error("expected target_reached bookmark")
	}

	near.Generation = 2
	if hasBookmark(bd.Check(near), BookmarkTargetReached) {
		t.Error("target_reached should fire only once per run")
	}
}
