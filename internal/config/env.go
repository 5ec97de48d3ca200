// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the process environment. Variable names come
// from the `env` tags on [StructuredConfig], with each nested section
// carrying its `envPrefix` (REGISTRY_, SEARCH_, RESILIENCE_, STORAGE_DB_,
// SERVER_, WORKERS_). A value that cannot be converted to its field type is
// reported as a wrapped error.
func parseEnv(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env config: %w", err)
	}

	return nil
}
