package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/riftlane/internal/config"
	"github.com/vovakirdan/riftlane/internal/grid"
	"github.com/vovakirdan/riftlane/internal/sim"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveRunAndCorridors(t *testing.T) {
	store := openTemp(t)

	corridors := []Corridor{
		{Index: 0, Zone: 1, Tier: 1, Junction: -1, Cells: []grid.Cell{grid.At(2, 0), grid.At(1, 0), grid.At(0, 0)}},
		{Index: 1, Zone: 2, Tier: 2, Junction: 1, Mutation: "swift", Cells: []grid.Cell{grid.At(2, -1), grid.At(2, 0), grid.At(1, 0), grid.At(0, 0)}},
	}
	id, err := store.SaveRun(Run{Seed: 42, Preset: "dense", Wave: 12, Expected: 2, Corridors: 2, Direct: 1, Merged: 1, Cols: 41, Rows: 41}, corridors)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	run, err := store.RunByID(id)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if run.Seed != 42 || run.Preset != "dense" || run.Wave != 12 || run.Merged != 1 {
		t.Errorf("RunByID() = %+v", run)
	}
	if run.CreatedAt.IsZero() {
		t.Error("CreatedAt was not set")
	}

	got, err := store.Corridors(id)
	if err != nil {
		t.Fatalf("Corridors() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Corridors() = %d rows, expected 2", len(got))
	}
	if got[1].Mutation != "swift" || got[1].Junction != 1 || len(got[1].Cells) != 4 || got[1].Cells[0] != grid.At(2, -1) {
		t.Errorf("Corridors()[1] = %+v", got[1])
	}
}

func TestRecentRuns(t *testing.T) {
	store := openTemp(t)
	for i := 1; i <= 5; i++ {
		if _, err := store.SaveRun(Run{Seed: int64(i), Wave: i * 10}, nil); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	runs, err := store.RecentRuns(3)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("RecentRuns(3) = %d runs, expected 3", len(runs))
	}
	if runs[0].Seed != 5 || runs[2].Seed != 3 {
		t.Errorf("RecentRuns() seeds = %d..%d, expected 5..3", runs[0].Seed, runs[2].Seed)
	}
}

func TestDeleteRun(t *testing.T) {
	store := openTemp(t)
	id, err := store.SaveRun(Run{Seed: 1}, []Corridor{{Cells: []grid.Cell{grid.At(0, 0)}}})
	if err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteRun(id); err != nil {
		t.Fatalf("DeleteRun() failed: %v", err)
	}
	if _, err := store.RunByID(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("RunByID(deleted) = %v, expected ErrNotFound", err)
	}
	if err := store.DeleteRun(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteRun(deleted) = %v, expected ErrNotFound", err)
	}
	if cs, _ := store.Corridors(id); len(cs) != 0 {
		t.Errorf("corridors of a deleted run remain: %d", len(cs))
	}
}

func TestSaveWorld(t *testing.T) {
	store := openTemp(t)
	w := sim.New(sim.Options{Config: config.DefaultRiftConfig(), Seed: 8})
	if err := w.CalculatePath(); err != nil {
		t.Fatalf("CalculatePath() failed: %v", err)
	}

	id, err := store.SaveWorld(w, "normal")
	if err != nil {
		t.Fatalf("SaveWorld() failed: %v", err)
	}
	run, err := store.RunByID(id)
	if err != nil {
		t.Fatal(err)
	}
	if run.Seed != 8 || run.Corridors != 1 || run.Direct != 1 {
		t.Errorf("RunByID() = %+v", run)
	}

	cs, err := store.Corridors(id)
	if err != nil || len(cs) != 1 {
		t.Fatalf("Corridors() = %d, %v", len(cs), err)
	}
	want := w.Paths()[0].Cells
	if len(cs[0].Cells) != len(want) || cs[0].Cells[len(want)-1] != w.Core() {
		t.Errorf("stored corridor has %d cells, expected %d ending on the core", len(cs[0].Cells), len(want))
	}
}

func TestDecodeCellsRejectsGarbage(t *testing.T) {
	tests := []string{"1", "1,x", "a,2;3,4"}
	for _, s := range tests {
		if _, err := DecodeCells(s); err == nil {
			t.Errorf("DecodeCells(%q) should fail", s)
		}
	}
	if cells, err := DecodeCells(""); err != nil || cells != nil {
		t.Errorf("DecodeCells(\"\") = %v, %v, expected nil", cells, err)
	}
}
