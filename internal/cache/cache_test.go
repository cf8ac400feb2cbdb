package cache

import (
	"testing"
	"time"

	"github.com/ppiankov/fabula/internal/model"
)

func TestKeyBindsInputs(t *testing.T) {
	base := Key("/books/dune.txt", 1, 1000)

	if base == Key("/books/dune.txt", 2, 1000) {
		t.Error("key ignores chunking options")
	}
	if base == Key("/books/dune.txt", 1, 2000) {
		t.Error("key ignores source mtime")
	}
	if base == Key("/books/hobbit.txt", 1, 1000) {
		t.Error("key ignores source path")
	}
	if base != Key("/books/dune.txt", 1, 1000) {
		t.Error("key not deterministic")
	}
}

func TestEncodeDecodePassages(t *testing.T) {
	passages := []model.Passage{
		{ChunkID: "chunk_a", Position: 0, Text: "First paragraph.", CharStart: 0, CharEnd: 16},
	}

	data, err := EncodePassages(passages)
	if err != nil {
		t.Fatalf("EncodePassages() error: %v", err)
	}

	decoded, err := DecodePassages(data)
	if err != nil {
		t.Fatalf("DecodePassages() error: %v", err)
	}
	if len(decoded) != 1 || decoded[0] != passages[0] {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}

func runCacheContract(t *testing.T, c Cache) {
	t.Helper()

	if _, found := c.Get("missing"); found {
		t.Error("Get on empty cache reported a hit")
	}

	if err := c.Set("key1", []byte("value1"), time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, found := c.Get("key1")
	if !found || string(got) != "value1" {
		t.Errorf("Get(key1) = %q, %v", got, found)
	}

	if err := c.Delete("key1"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, found := c.Get("key1"); found {
		t.Error("Get after Delete reported a hit")
	}

	_ = c.Set("key2", []byte("value2"), time.Minute)
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if _, found := c.Get("key2"); found {
		t.Error("Get after Clear reported a hit")
	}
}

func TestMemoryCache(t *testing.T) {
	runCacheContract(t, NewMemoryCache(time.Minute, time.Minute))
}

func TestDiskCache(t *testing.T) {
	runCacheContract(t, NewDiskCache(t.TempDir(), time.Minute))
}

func TestDiskCachePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first := NewDiskCache(dir, time.Minute)
	if err := first.Set("key1", []byte("value1"), time.Minute); err != nil {
		t.Fatal(err)
	}

	second := NewDiskCache(dir, time.Minute)
	got, found := second.Get("key1")
	if !found || string(got) != "value1" {
		t.Errorf("disk entry not visible to a fresh instance: %q, %v", got, found)
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	if err := c.Set("key1", []byte("value1"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}

	time.Sleep(5 * time.Millisecond)
	if _, found := c.Get("key1"); found {
		t.Error("expired entry still served")
	}
}

func TestLayeredCache(t *testing.T) {
	runCacheContract(t, NewLayeredCache(time.Minute, t.TempDir(), time.Minute))
}

func TestLayeredCachePromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	// Seed the disk layer only.
	disk := NewDiskCache(dir, time.Minute)
	if err := disk.Set("key1", []byte("value1"), time.Minute); err != nil {
		t.Fatal(err)
	}

	layered := NewLayeredCache(time.Minute, dir, time.Minute)
	got, found := layered.Get("key1")
	if !found || string(got) != "value1" {
		t.Fatalf("disk entry not served through layered cache: %q, %v", got, found)
	}

	// After promotion, the entry survives losing the disk layer.
	if err := disk.Clear(); err != nil {
		t.Fatal(err)
	}
	got, found = layered.Get("key1")
	if !found || string(got) != "value1" {
		t.Errorf("promoted entry missing from memory layer: %q, %v", got, found)
	}
}
