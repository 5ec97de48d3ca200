// SPDX-License-Identifier: Apache-2.0

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies the
// daemon's startup invariants.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Registry.BaseURL == "" || cfg.Registry.TokenURL == "" {
		return ErrInvalidRegistryConfigs
	}

	if cfg.Registry.ClientID == "" || cfg.Registry.ClientSecret == "" {
		return ErrInvalidCredentialConfigs
	}

	if cfg.Resilience.ErrorThresholdPct <= 0 || cfg.Resilience.ErrorThresholdPct > 100 {
		return ErrInvalidResilienceConfigs
	}

	return nil
}
