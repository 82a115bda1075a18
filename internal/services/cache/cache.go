// Package cache is a TTL response cache persisted in the key-value store.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/guychenya/chanlyze/internal/logger"
	"github.com/guychenya/chanlyze/internal/store"
)

// KeyPrefix namespaces cache records in the store.
const KeyPrefix = "cache:"

// DefaultTTL applies when Set is called without a positive TTL.
const DefaultTTL = 30 * time.Minute

// RequestKey describes a remote request: the endpoint and its parameters.
type RequestKey struct {
	Params   map[string]string
	Endpoint string
}

// NewKey builds a RequestKey from alternating name/value pairs.
func NewKey(endpoint string, kv ...string) RequestKey {
	params := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		params[kv[i]] = kv[i+1]
	}
	return RequestKey{Endpoint: endpoint, Params: params}
}

// Fingerprint returns the deterministic store key for the request.
// Parameter order does not matter.
func (k RequestKey) Fingerprint() string {
	names := make([]string, 0, len(k.Params))
	for name := range k.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names)+1)
	parts = append(parts, k.Endpoint)
	for _, name := range names {
		parts = append(parts, name+"="+k.Params[name])
	}
	hash := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%s%s:%x", KeyPrefix, k.Endpoint, hash[:12])
}

// Entry is the persisted envelope around a cached payload.
type Entry[T any] struct {
	Payload         T      `json:"payload"`
	Key             string `json:"key"`
	StoredAtEpochMs int64  `json:"storedAtEpochMs"`
	TTLMs           int64  `json:"ttlMs"`
}

// Valid reports whether the entry is still fresh at now.
func (e Entry[T]) Valid(now time.Time) bool {
	return now.UnixMilli()-e.StoredAtEpochMs <= e.TTLMs
}

// Options configures a Cache.
type Options struct {
	Now func() time.Time
	TTL time.Duration
}

// Stats counts lookups.
type Stats struct {
	Hits   int64
	Misses int64
}

// Cache stores payloads of type T keyed by RequestKey.
type Cache[T any] struct {
	store  store.Store
	now    func() time.Time
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

// New returns a cache of T values backed by s.
func New[T any](s store.Store, opts Options) *Cache[T] {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Cache[T]{store: s, now: opts.Now, ttl: opts.TTL}
}

// Get returns the cached value for key. Expired or unreadable entries are
// deleted and reported as a miss.
func (c *Cache[T]) Get(key RequestKey) (T, bool, error) {
	var zero T
	fp := key.Fingerprint()

	raw, ok, err := c.store.Get(fp)
	if err != nil {
		return zero, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	if !ok {
		c.misses.Add(1)
		return zero, false, nil
	}

	var entry Entry[T]
	if err := json.Unmarshal(raw, &entry); err != nil {
		logger.Warn("dropping unreadable cache entry", "key", fp, "error", err)
		c.misses.Add(1)
		return zero, false, c.store.Delete(fp)
	}
	if !entry.Valid(c.now()) {
		c.misses.Add(1)
		if err := c.store.Delete(fp); err != nil {
			return zero, false, fmt.Errorf("failed to delete expired cache entry: %w", err)
		}
		return zero, false, nil
	}

	c.hits.Add(1)
	return entry.Payload, true, nil
}

// Set stores value under key. A non-positive ttl uses the cache default.
func (c *Cache[T]) Set(key RequestKey, value T, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	fp := key.Fingerprint()
	raw, err := json.Marshal(Entry[T]{
		Key:             fp,
		Payload:         value,
		StoredAtEpochMs: c.now().UnixMilli(),
		TTLMs:           ttl.Milliseconds(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := c.store.Put(fp, raw); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Invalidate removes key from the cache.
func (c *Cache[T]) Invalidate(key RequestKey) error {
	return c.store.Delete(key.Fingerprint())
}

// PurgeExpired deletes every expired entry in the store, of any payload type.
func (c *Cache[T]) PurgeExpired() (int, error) {
	return PurgeExpired(c.store, c.now())
}

// Stats returns hit and miss counts since creation.
func (c *Cache[T]) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// PurgeExpired scans all cache records in s and deletes those expired at now.
func PurgeExpired(s store.Store, now time.Time) (int, error) {
	keys, err := s.Keys(KeyPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list cache entries: %w", err)
	}

	purged := 0
	for _, k := range keys {
		raw, ok, err := s.Get(k)
		if err != nil {
			return purged, fmt.Errorf("failed to read cache entry: %w", err)
		}
		if !ok {
			continue
		}
		var entry Entry[json.RawMessage]
		if json.Unmarshal(raw, &entry) == nil && entry.Valid(now) {
			continue
		}
		if err := s.Delete(k); err != nil {
			return purged, fmt.Errorf("failed to delete cache entry: %w", err)
		}
		purged++
	}
	return purged, nil
}

// Clear deletes every cache record in s.
func Clear(s store.Store) (int, error) {
	keys, err := s.Keys(KeyPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list cache entries: %w", err)
	}
	for i, k := range keys {
		if err := s.Delete(k); err != nil {
			return i, fmt.Errorf("failed to delete cache entry: %w", err)
		}
	}
	return len(keys), nil
}
