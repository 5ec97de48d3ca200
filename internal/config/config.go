// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the sync
// engine daemon. It aggregates all sub-configurations and is populated by
// merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Registry holds the connection settings for the national procurement
	// registry: API base URL, OAuth2 token endpoint, and client
	// credentials.
	Registry Registry `envPrefix:"REGISTRY_"`

	// Search holds the connection settings for the auxiliary legal-norm
	// search provider.
	Search Search `envPrefix:"SEARCH_"`

	// Resilience holds the retry and circuit-breaker tuning shared by all
	// outbound integrations.
	Resilience Resilience `envPrefix:"RESILIENCE_"`

	// Storage holds the PostgreSQL connection settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the listen address of the operational HTTP surface
	// (metrics scrape, manual sync triggers, health).
	Server Server `envPrefix:"SERVER_"`

	// Workers holds background worker settings, currently the push
	// scheduler queue size.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Registry configures access to the procurement registry API.
type Registry struct {
	// BaseURL is the root of the registry's REST API.
	// Env: REGISTRY_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// TokenURL is the OAuth2 client-credentials token endpoint.
	// Env: REGISTRY_TOKEN_URL
	TokenURL string `env:"TOKEN_URL"`

	// ClientID identifies this system to the registry's auth provider.
	// Env: REGISTRY_CLIENT_ID
	ClientID string `env:"CLIENT_ID"`

	// ClientSecret is the client-credentials secret. Must be kept
	// confidential and is never logged.
	// Env: REGISTRY_CLIENT_SECRET
	ClientSecret string `env:"CLIENT_SECRET"`

	// RequestTimeout bounds every single attempt against the registry.
	// The registry is the slowest dependency, so its timeout is larger
	// than the search provider's.
	// Env: REGISTRY_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
}

// Search configures the auxiliary search/enrichment provider.
type Search struct {
	// BaseURL is the root of the search provider's API.
	// Env: SEARCH_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout bounds every single attempt against the provider.
	// Env: SEARCH_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`

	// CacheTTL is how long a successful search response is served from the
	// in-memory cache before the provider is asked again.
	// Env: SEARCH_CACHE_TTL
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"10m"`
}

// Resilience tunes the retry and circuit-breaker envelope applied to all
// volatile remote dependencies.
type Resilience struct {
	// MaxRetries is the number of additional attempts after the first
	// failing one, for retryable errors only.
	// Env: RESILIENCE_MAX_RETRIES
	MaxRetries uint64 `env:"MAX_RETRIES" envDefault:"3"`

	// BaseDelay is the first backoff delay; subsequent delays double, with
	// jitter, capped at MaxDelay.
	// Env: RESILIENCE_BASE_DELAY
	BaseDelay time.Duration `env:"BASE_DELAY" envDefault:"200ms"`

	// MaxDelay caps the exponential backoff.
	// Env: RESILIENCE_MAX_DELAY
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"5s"`

	// ErrorThresholdPct is the failure percentage at which the breaker
	// opens, evaluated only once VolumeThreshold samples exist.
	// Env: RESILIENCE_ERROR_THRESHOLD_PCT
	ErrorThresholdPct float64 `env:"ERROR_THRESHOLD_PCT" envDefault:"50"`

	// VolumeThreshold is the minimum number of calls in the current
	// breaker window before the error threshold is evaluated.
	// Env: RESILIENCE_VOLUME_THRESHOLD
	VolumeThreshold uint32 `env:"VOLUME_THRESHOLD" envDefault:"10"`

	// ResetTimeout is how long an open breaker waits before permitting a
	// half-open trial call.
	// Env: RESILIENCE_RESET_TIMEOUT
	ResetTimeout time.Duration `env:"RESET_TIMEOUT" envDefault:"30s"`
}

// Storage groups the configuration for the persistence backend.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds the PostgreSQL connection settings.
type DB struct {
	// DSN is the PostgreSQL connection string.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Server holds the operational HTTP listener settings.
type Server struct {
	// Address is the host:port the chi router listens on.
	// Env: SERVER_ADDRESS
	Address string `env:"ADDRESS" envDefault:"localhost:8090"`
}

// Workers holds background worker configuration.
type Workers struct {
	// PushQueueSize bounds the scheduler queue of contract ids awaiting a
	// push triggered by local-wins conflict resolution.
	// Env: WORKERS_PUSH_QUEUE_SIZE
	PushQueueSize int `env:"PUSH_QUEUE_SIZE" envDefault:"256"`
}

// GetStructuredConfig loads, merges, and validates the daemon
// configuration.
//
// Sources are merged in priority order: environment variables first, then
// command-line flags, then the optional JSON file referenced by either of
// the former. The merged result is validated before being returned.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
