package adminkit

import "strconv"

// Cache is the interface for caching synthesized templates.
// Users may implement it with their preferred caching solution; package
// compiler/gen ships an in-memory implementation.
type Cache interface {
	// Get retrieves a template from the cache.
	// The boolean is false if the key doesn't exist.
	Get(key CacheKey) (string, bool)

	// Set stores a template in the cache.
	Set(key CacheKey, template string)

	// Purge removes all entries that were not produced from the given schema
	// fingerprint. An empty fingerprint removes everything.
	Purge(fingerprint string)
}

// CacheKey identifies one synthesized template. Fingerprint binds the entry
// to the schema snapshot it was generated from, so a reloaded schema never
// hits stale entries.
type CacheKey struct {
	Fingerprint string
	Table       string
	Context     string
	Depth       int
}

// String returns the string representation of the cache key.
func (k CacheKey) String() string {
	return k.Fingerprint + ":" + k.Table + ":" + k.Context + ":" + strconv.Itoa(k.Depth)
}
