package resilience

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// CachePolicy enables response caching on an invoker. Only genuinely
// successful results are stored; fallback values are produced outside the
// invoker and therefore never reach the cache.
type CachePolicy struct {
	// TTL is how long a cached response is served before the remote
	// dependency is consulted again.
	TTL time.Duration
}

// NormalizeRequest canonicalizes a request string for cache-key derivation:
// leading/trailing whitespace is trimmed, internal whitespace runs collapse
// to a single space, and the result is lowercased. Requests differing only
// in formatting therefore share one cache entry.
func NormalizeRequest(request string) string {
	return strings.ToLower(strings.Join(strings.Fields(request), " "))
}

// CacheKey hashes the normalized request into a fixed-size hex key.
func CacheKey(request string) string {
	sum := sha256.Sum256([]byte(NormalizeRequest(request)))
	return hex.EncodeToString(sum[:])
}
