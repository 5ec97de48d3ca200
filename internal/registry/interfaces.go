// SPDX-License-Identifier: Apache-2.0

// Package registry provides the transport layer for the national
// procurement registry.
//
// The primary abstraction is [Adapter], which decouples the sync engine
// from the registry's REST protocol: wire-shape translation (the registry's
// Portuguese field naming differs from the local Contract), bearer-token
// management, and mapping of transport-level errors to the sentinel values
// defined in this package so callers can branch with [errors.Is].
package registry

import (
	"context"

	"github.com/contratoflow/sync-engine/models"
	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/registry_adapter_mock.go -package=mock

// Adapter defines transport-agnostic communication with the procurement
// registry. Implementations are responsible for serialization, bearer-token
// handling, the resilience envelope, and error mapping.
type Adapter interface {
	// Publish sends the contract to the registry, creating it when the
	// contract has no RemoteID yet and updating the existing remote
	// record otherwise. Returns the registry-assigned identifier.
	Publish(ctx context.Context, contract models.Contract) (string, error)

	// List fetches the registry's contract records scoped to the
	// organization and translates each into a [models.RemoteSnapshot].
	// A record that fails translation is returned with its Err set rather
	// than dropped, so a pull batch can count it and keep going.
	List(ctx context.Context, organizationID uuid.UUID) ([]RemoteRecord, error)
}

// RemoteRecord pairs one registry record with its translation outcome so
// that a pull batch can count per-record failures without aborting.
type RemoteRecord struct {
	Snapshot models.RemoteSnapshot
	Err      error
}

// TokenProvider supplies bearer tokens for registry calls. Implemented by
// the credentials cache.
type TokenProvider interface {
	Token(ctx context.Context) (models.Token, error)
	Invalidate()
}
