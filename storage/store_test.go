package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func storeBackends(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": NewSQLiteStore(filepath.Join(t.TempDir(), "rockets.db")),
	}
}

func TestStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Init(ctx); err != nil {
				t.Fatalf("init: %v", err)
			}
			t.Cleanup(func() { _ = CloseIfSupported(store) })

			started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
			first := Run{ID: "b", Seed: 7, StartedAt: started, RocketCount: 100, Lifetime: 300, MutationChance: 0.05, MutationForce: 0.02}
			second := Run{ID: "a", Seed: 8, StartedAt: started.Add(time.Minute), RocketCount: 10, Lifetime: 50}
			for _, run := range []Run{second, first} {
				if err := store.SaveRun(ctx, run); err != nil {
					t.Fatalf("save run: %v", err)
				}
			}

			got, ok, err := store.GetRun(ctx, "b")
			if err != nil || !ok {
				t.Fatalf("get run: ok=%v err=%v", ok, err)
			}
			if got.Seed != 7 || got.Lifetime != 300 || got.MutationForce != 0.02 || !got.StartedAt.Equal(started) {
				t.Fatalf("unexpected run loaded: %+v", got)
			}

			if _, ok, err := store.GetRun(ctx, "missing"); err != nil || ok {
				t.Fatalf("missing run: ok=%v err=%v", ok, err)
			}

			runs, err := store.ListRuns(ctx)
			if err != nil {
				t.Fatalf("list runs: %v", err)
			}
			if len(runs) != 2 || runs[0].ID != "b" || runs[1].ID != "a" {
				t.Fatalf("runs not ordered by start time: %+v", runs)
			}
		})
	}
}

func TestStoreGenerations(t *testing.T) {
	ctx := context.Background()
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Init(ctx); err != nil {
				t.Fatalf("init: %v", err)
			}
			t.Cleanup(func() { _ = CloseIfSupported(store) })

			for _, gen := range []int{2, 0, 1} {
				rec := GenerationRecord{RunID: "r1", Generation: gen, BestFitness: float64(gen + 1), PoolSize: 100}
				if err := store.SaveGeneration(ctx, rec); err != nil {
					t.Fatalf("save generation: %v", err)
				}
			}
			// Upsert replaces an existing generation
			if err := store.SaveGeneration(ctx, GenerationRecord{RunID: "r1", Generation: 1, BestFitness: 9}); err != nil {
				t.Fatalf("upsert generation: %v", err)
			}

			records, ok, err := store.GetGenerations(ctx, "r1")
			if err != nil || !ok {
				t.Fatalf("get generations: ok=%v err=%v", ok, err)
			}
			if len(records) != 3 {
				t.Fatalf("got %d generations, want 3", len(records))
			}
			for i, rec := range records {
				if rec.Generation != i {
					t.Errorf("record %d has generation %d", i, rec.Generation)
				}
			}
			if records[1].BestFitness != 9 {
				t.Errorf("upserted best fitness = %v, want 9", records[1].BestFitness)
			}

			if _, ok, err := store.GetGenerations(ctx, "other"); err != nil || ok {
				t.Fatalf("unknown run: ok=%v err=%v", ok, err)
			}
		})
	}
}

func TestStoreHallOfFame(t *testing.T) {
	ctx := context.Background()
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Init(ctx); err != nil {
				t.Fatalf("init: %v", err)
			}
			t.Cleanup(func() { _ = CloseIfSupported(store) })

			entries := []HallRecord{
				{Rank: 0, Generation: 40, RocketID: 4012, Fitness: 0.5, Distance: 2, Genes: []float64{0.1, 0.9}},
				{Rank: 1, Generation: 12, RocketID: 1207, Fitness: 0.1, Distance: 10, Genes: []float64{0.4, 0.6}},
			}
			if err := store.SaveHallOfFame(ctx, "r1", entries); err != nil {
				t.Fatalf("save hall: %v", err)
			}
			entries[0].Genes[0] = 99

			loaded, ok, err := store.GetHallOfFame(ctx, "r1")
			if err != nil || !ok {
				t.Fatalf("get hall: ok=%v err=%v", ok, err)
			}
			if len(loaded) != 2 || loaded[1].RocketID != 1207 {
				t.Fatalf("unexpected hall loaded: %+v", loaded)
			}
			if loaded[0].Genes[0] != 0.1 {
				t.Errorf("stored genes alias caller slice: %v", loaded[0].Genes)
			}
		})
	}
}

func TestStoreRequiresInit(t *testing.T) {
	ctx := context.Background()
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.SaveRun(ctx, Run{ID: "x"}); !errors.Is(err, ErrNotInitialized) {
				t.Errorf("save before init: %v, want ErrNotInitialized", err)
			}
		})
	}
}

func TestSQLiteStoreRequiresPath(t *testing.T) {
	if err := NewSQLiteStore("").Init(context.Background()); err == nil {
		t.Fatal("expected error for empty sqlite path")
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "rockets.db")

	store := NewSQLiteStore(path)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := store.SaveGeneration(ctx, GenerationRecord{RunID: "r1", Generation: 0, BestFitness: 0.25}); err != nil {
		t.Fatalf("save generation: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := NewSQLiteStore(path)
	if err := reopened.Init(ctx); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })

	records, ok, err := reopened.GetGenerations(ctx, "r1")
	if err != nil || !ok || records[0].BestFitness != 0.25 {
		t.Fatalf("reopened generations = %+v ok=%v err=%v", records, ok, err)
	}
}

func TestDecodeHallOfFameVersion(t *testing.T) {
	if _, err := DecodeHallOfFame([]byte(`{"codec_version": 2, "entries": []}`)); !errors.Is(err, ErrVersionMismatch) {
		t.Errorf("decode: %v, want ErrVersionMismatch", err)
	}
}

func TestNewRunIDUnique(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	if a == b || len(a) != 36 {
		t.Errorf("run ids %q and %q", a, b)
	}
}
