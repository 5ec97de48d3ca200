// SPDX-License-Identifier: Apache-2.0

package service

//go:generate mockgen -source=interfaces.go -destination=../mock/mock_service.go -package=mock

import (
	"context"

	"github.com/contratoflow/sync-engine/internal/store"
	"github.com/contratoflow/sync-engine/models"
	"github.com/google/uuid"
)

// ContractService owns the local lifecycle of contract records: creation,
// lookup and listing. Freshly created contracts are handed to the push
// scheduler so they reach the registry without blocking the caller.
type ContractService interface {
	CreateContract(ctx context.Context, contract models.Contract) (models.Contract, error)
	GetContract(ctx context.Context, id uuid.UUID) (models.Contract, error)
	ListContracts(ctx context.Context, filter store.ContractFilter) ([]models.Contract, error)
}

// SyncEngine reconciles local contracts against the remote registry.
type SyncEngine interface {
	// Push publishes one contract to the registry. On success the
	// contract's remote id, sync status and synced-at move in one write;
	// on failure the error is recorded on the contract and in the sync log
	// before it is returned.
	Push(ctx context.Context, contractID uuid.UUID) (models.Contract, error)

	// Pull fetches the registry's records for one organization and
	// reconciles each against local state. The batch is best-effort: a
	// failing record is counted, never fatal, and
	// Created+Updated+Errors always equals the batch size.
	Pull(ctx context.Context, organizationID uuid.UUID) (models.PullResult, error)

	// History returns the contract's append-only sync trail, oldest first.
	History(ctx context.Context, contractID uuid.UUID) ([]models.SyncLogEntry, error)
}

// PushScheduler accepts contract ids for asynchronous publication. Schedule
// must never block: when the queue is full the id is dropped and false is
// returned, leaving the contract pending for a later manual push.
type PushScheduler interface {
	Schedule(contractID uuid.UUID) bool
}
