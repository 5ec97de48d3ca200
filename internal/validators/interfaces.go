// SPDX-License-Identifier: Apache-2.0

// Package validators holds the business-rule checks a contract must pass
// before it may be published to the procurement registry: required fields,
// a positive global value, a supplier tax id (CNPJ) derivable from the
// role text, and a coherent vigency window.
//
// Validators are injected into the services that need them, keeping the
// rules independent of transport and storage.
package validators

import "context"

// Validator checks one value against the registry's publication rules.
type Validator interface {

	// Validate checks the provided value; when field names are given,
	// only those fields are checked.
	Validate(context.Context, any, ...string) error
}
