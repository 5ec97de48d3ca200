// SPDX-License-Identifier: Apache-2.0

package store

//go:generate mockgen -source=interfaces.go -destination=../mock/mock_store.go -package=mock

import (
	"context"
	"time"

	"github.com/contratoflow/sync-engine/models"
	"github.com/google/uuid"
)

// ContractFilter narrows a contract listing. Nil fields are not applied.
type ContractFilter struct {
	OrganizationID *uuid.UUID
	SyncStatus     *models.SyncStatus
	UpdatedSince   *time.Time
	Limit          uint64
}

// ContractRepository persists contract records and their synchronization
// metadata.
type ContractRepository interface {
	// Save inserts a new contract and returns it with server-assigned
	// fields (ID, CreatedAt, UpdatedAt, Version) populated.
	Save(ctx context.Context, contract models.Contract) (models.Contract, error)

	// GetByID returns one contract or ErrContractNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (models.Contract, error)

	// GetByNumber looks a contract up by its natural key within one
	// organization.
	GetByNumber(ctx context.Context, organizationID uuid.UUID, contractNumber string) (models.Contract, error)

	// List returns contracts matching the filter, most recently updated
	// first.
	List(ctx context.Context, filter ContractFilter) ([]models.Contract, error)

	// MarkSynced records a successful publish in one atomic write:
	// remote_id, sync_status and synced_at move together, sync_error_message
	// is cleared, and updated_at is left untouched so the write is not
	// mistaken for a local edit.
	MarkSynced(ctx context.Context, id uuid.UUID, remoteID string, syncedAt time.Time) (models.Contract, error)

	// MarkSyncError stores the failure message and flips sync_status to
	// error without touching the business fields.
	MarkSyncError(ctx context.Context, id uuid.UUID, message string) error

	// Reconcile overwrites the stored row with the merged record produced
	// by conflict resolution, in a single UPDATE guarded by the version the
	// merge was computed against. A lost race returns ErrStaleContract.
	Reconcile(ctx context.Context, contract models.Contract) (models.Contract, error)
}

// SyncLogRepository stores the append-only synchronization history.
type SyncLogRepository interface {
	// Append writes one log entry and returns it with ID and OccurredAt
	// assigned.
	Append(ctx context.Context, entry models.SyncLogEntry) (models.SyncLogEntry, error)

	// ListByContract returns a contract's history, oldest first.
	ListByContract(ctx context.Context, contractID uuid.UUID) ([]models.SyncLogEntry, error)
}
