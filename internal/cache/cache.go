// Package cache stores ingested passage sets so repeated checks against the
// same narrative skip re-chunking. Keys bind the source path, the chunking
// options, and the file mtime, so an edited narrative misses the cache.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/fabula/internal/model"
)

// Cache is a byte-value cache with per-entry TTLs
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key for a narrative source
func Key(path string, overlapParagraphs int, mtime int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d", path, overlapParagraphs, mtime)))
	return "fabula:v1:" + hex.EncodeToString(sum[:])
}

// EncodePassages serializes a passage set for caching
func EncodePassages(passages []model.Passage) ([]byte, error) {
	return json.Marshal(passages)
}

// DecodePassages deserializes a cached passage set
func DecodePassages(data []byte) ([]model.Passage, error) {
	var passages []model.Passage
	if err := json.Unmarshal(data, &passages); err != nil {
		return nil, err
	}
	return passages, nil
}
