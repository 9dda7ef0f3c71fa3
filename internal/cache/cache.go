// Package cache stores annotator responses so a question is sent to the
// annotation server once per TTL.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte store with per-entry expiry
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

const keyPrefix = "nlquery:v1:"

// AnnotationKey derives the cache key of one annotation request. The endpoint
// and pipeline properties are part of the key, so switching servers or
// annotators never serves stale parses.
func AnnotationKey(endpoint, properties, text string) string {
	h := sha256.New()
	for _, part := range []string{endpoint, properties, text} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// New builds the cache described by the configuration: memory in front of
// disk, memory only when dir is empty, or a no-op when disabled.
func New(enabled bool, dir string, memoryTTL, diskTTL time.Duration) Cache {
	switch {
	case !enabled:
		return Nop{}
	case dir == "":
		return NewMemoryCache(memoryTTL, 10*time.Minute)
	default:
		return NewLayeredCache(memoryTTL, dir, diskTTL)
	}
}

// Nop is a cache that stores nothing
type Nop struct{}

func (Nop) Get(string) ([]byte, bool)               { return nil, false }
func (Nop) Set(string, []byte, time.Duration) error { return nil }
func (Nop) Delete(string) error                     { return nil }
func (Nop) Clear() error                            { return nil }
