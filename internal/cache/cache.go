// Package cache stores fetched filing bodies and fuzzy-match results between runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

const keyPrefix = "wrangle:v1:"

// Key namespaces
const (
	KindFiling = "filing"
	KindMatch  = "match"
)

// CacheKey derives a stable key for the given namespace and parts.
// Parts are joined with a NUL separator so ("ab","c") and ("a","bc") differ.
func CacheKey(kind string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return keyPrefix + kind + ":" + hex.EncodeToString(hash[:])
}

// Nop never stores anything. Used when caching is disabled.
type Nop struct{}

func (Nop) Get(string) ([]byte, bool) { return nil, false }
func (Nop) Set(string, []byte, time.Duration) error { return nil }
func (Nop) Delete(string) error { return nil }
func (Nop) Clear() error { return nil }
