package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ppiankov/fabula/internal/model"
)

func testPassages() []model.Passage {
	return []model.Passage{
		{ChunkID: "chunk_a", Position: 0, Text: "First paragraph.", CharStart: 0, CharEnd: 16},
		{ChunkID: "chunk_b", Position: 1, Text: "Second paragraph.", CharStart: 18, CharEnd: 35},
	}
}

func runStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	// Unknown narrative
	got, err := s.Passages(ctx, "unknown")
	if err != nil {
		t.Fatalf("Passages(unknown) error: %v", err)
	}
	if got != nil {
		t.Errorf("Passages(unknown) = %v, want nil", got)
	}

	// Round trip
	if err := s.Put(ctx, "dune", testPassages()); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	got, err = s.Passages(ctx, "dune")
	if err != nil {
		t.Fatalf("Passages() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(got))
	}
	for i, p := range got {
		if p.Position != i {
			t.Errorf("passage %d position = %d, not ordered", i, p.Position)
		}
	}
	if got[0].ChunkID != "chunk_a" || got[1].Text != "Second paragraph." {
		t.Errorf("round trip mismatch: %+v", got)
	}

	// Put replaces
	replacement := []model.Passage{
		{ChunkID: "chunk_c", Position: 0, Text: "Rewritten paragraph."},
	}
	if err := s.Put(ctx, "dune", replacement); err != nil {
		t.Fatalf("replacing Put() error: %v", err)
	}
	got, err = s.Passages(ctx, "dune")
	if err != nil {
		t.Fatalf("Passages() after replace error: %v", err)
	}
	if len(got) != 1 || got[0].ChunkID != "chunk_c" {
		t.Errorf("Put did not replace: %+v", got)
	}

	// Narratives are independent
	if err := s.Put(ctx, "hobbit", testPassages()); err != nil {
		t.Fatalf("Put(hobbit) error: %v", err)
	}
	got, _ = s.Passages(ctx, "dune")
	if len(got) != 1 {
		t.Errorf("writing one narrative disturbed another: %+v", got)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	runStoreContract(t, s)
}

func TestMemoryStoreDefensiveCopies(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	original := testPassages()
	if err := s.Put(ctx, "dune", original); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's slice must not reach the store.
	original[0].Text = "mutated"
	got, _ := s.Passages(ctx, "dune")
	if got[0].Text != "First paragraph." {
		t.Errorf("stored passage mutated through caller slice: %q", got[0].Text)
	}

	// Mutating a returned slice must not reach the store either.
	got[1].Text = "mutated"
	again, _ := s.Passages(ctx, "dune")
	if again[1].Text != "Second paragraph." {
		t.Errorf("stored passage mutated through returned slice: %q", again[1].Text)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "fabula.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	defer s.Close()

	runStoreContract(t, s)
}

func TestSQLiteStoreOrdersByPosition(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "fabula.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	shuffled := []model.Passage{
		{ChunkID: "chunk_c", Position: 2, Text: "Third."},
		{ChunkID: "chunk_a", Position: 0, Text: "First."},
		{ChunkID: "chunk_b", Position: 1, Text: "Second."},
	}
	if err := s.Put(ctx, "dune", shuffled); err != nil {
		t.Fatal(err)
	}

	got, err := s.Passages(ctx, "dune")
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range got {
		if p.Position != i {
			t.Errorf("passage %d position = %d, want sorted ascending", i, p.Position)
		}
	}
}

func TestSQLiteStoreConcurrentPuts(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "fabula.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	// Batch rows hit the store from parallel workers; concurrent write
	// transactions must queue on the database lock, not fail busy.
	books := []string{"dune", "hobbit", "ulysses", "dracula"}
	errs := make(chan error, len(books))

	var wg sync.WaitGroup
	for _, book := range books {
		wg.Add(1)
		go func(book string) {
			defer wg.Done()
			errs <- s.Put(ctx, book, testPassages())
		}(book)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent Put failed: %v", err)
		}
	}

	for _, book := range books {
		got, err := s.Passages(ctx, book)
		if err != nil {
			t.Fatalf("Passages(%s) error: %v", book, err)
		}
		if len(got) != 2 {
			t.Errorf("Passages(%s) = %d passages, want 2", book, len(got))
		}
	}
}

func TestNewSelectsBackend(t *testing.T) {
	mem, err := New(model.StoreConfig{Backend: "memory"})
	if err != nil {
		t.Fatalf("New(memory) error: %v", err)
	}
	defer mem.Close()
	if _, ok := mem.(*MemoryStore); !ok {
		t.Errorf("backend = %T, want *MemoryStore", mem)
	}

	sq, err := New(model.StoreConfig{Backend: "sqlite", Path: filepath.Join(t.TempDir(), "fabula.db")})
	if err != nil {
		t.Fatalf("New(sqlite) error: %v", err)
	}
	defer sq.Close()
	if _, ok := sq.(*SQLiteStore); !ok {
		t.Errorf("backend = %T, want *SQLiteStore", sq)
	}
}
