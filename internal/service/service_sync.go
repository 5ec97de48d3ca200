// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/contratoflow/sync-engine/internal/logger"
	"github.com/contratoflow/sync-engine/internal/registry"
	"github.com/contratoflow/sync-engine/internal/store"
	"github.com/contratoflow/sync-engine/internal/validators"
	"github.com/contratoflow/sync-engine/models"
	"github.com/google/uuid"
)

// syncEngine is the concrete implementation of [SyncEngine]. It owns the
// reconciliation rules: push atomicity, best-effort pull batches, and
// last-write-wins conflict resolution. Every outcome, success or failure,
// leaves a trace in the append-only sync log.
type syncEngine struct {
	contracts store.ContractRepository
	syncLog   store.SyncLogRepository
	registry  registry.Adapter
	validator validators.Validator

	// scheduler queues the follow-up push when a conflict resolves in the
	// local record's favor. Attached after construction; may be nil in
	// tests that only exercise pull semantics.
	scheduler PushScheduler

	now    func() time.Time
	logger *logger.Logger
}

// NewSyncEngine constructs a [SyncEngine] ready for use.
func NewSyncEngine(
	storages *store.Storages,
	adapter registry.Adapter,
	validator validators.Validator,
	log *logger.Logger,
) SyncEngine {
	return &syncEngine{
		contracts: storages.ContractRepository,
		syncLog:   storages.SyncLogRepository,
		registry:  adapter,
		validator: validator,
		now:       time.Now,
		logger:    log,
	}
}

// Push implements [SyncEngine].
//
// The happy path is load → validate → publish → mark synced, with the final
// write moving remote_id, sync_status and synced_at together. Any failure
// after the load is recorded twice: on the contract (sync_status=error plus
// the message) and in the sync log, and only then surfaced to the caller.
func (s *syncEngine) Push(ctx context.Context, contractID uuid.UUID) (models.Contract, error) {
	log := logger.FromContext(ctx)

	contract, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, store.ErrContractNotFound) {
			return models.Contract{}, ErrContractNotFound
		}
		return models.Contract{}, err
	}

	if err = s.validator.Validate(ctx, contract); err != nil {
		err = fmt.Errorf("%w: %w", ErrContractInvalid, err)
		s.recordPushFailure(ctx, contractID, err)
		return models.Contract{}, err
	}

	remoteID, err := s.registry.Publish(ctx, contract)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrPushFailed, err)
		s.recordPushFailure(ctx, contractID, err)
		return models.Contract{}, err
	}

	synced, err := s.contracts.MarkSynced(ctx, contractID, remoteID, s.now())
	if err != nil {
		log.Err(err).Str("contract_id", contractID.String()).Msg("publish succeeded but local state was not updated")
		return models.Contract{}, err
	}

	s.appendLog(ctx, models.SyncLogEntry{
		ContractID: contractID,
		Action:     models.ActionPush,
		Message:    "published to registry as " + remoteID,
	})

	log.Info().
		Str("contract_id", contractID.String()).
		Str("remote_id", remoteID).
		Msg("contract pushed")

	return synced, nil
}

// recordPushFailure persists the failure on the contract and in the sync
// log. Both writes are best-effort: the original error is what the caller
// must see.
func (s *syncEngine) recordPushFailure(ctx context.Context, contractID uuid.UUID, cause error) {
	log := logger.FromContext(ctx)

	if err := s.contracts.MarkSyncError(ctx, contractID, cause.Error()); err != nil {
		log.Err(err).Str("contract_id", contractID.String()).Msg("failed to record sync error on contract")
	}

	s.appendLog(ctx, models.SyncLogEntry{
		ContractID: contractID,
		Action:     models.ActionError,
		Message:    cause.Error(),
	})
}

// Pull implements [SyncEngine].
//
// Each remote record is reconciled independently: a record that fails to
// translate or persist increments Errors and the batch moves on. When both
// sides changed, substantive field differences resolve by last-write-wins
// and the decision is logged with the full field diff.
func (s *syncEngine) Pull(ctx context.Context, organizationID uuid.UUID) (models.PullResult, error) {
	log := logger.FromContext(ctx)

	records, err := s.registry.List(ctx, organizationID)
	if err != nil {
		return models.PullResult{}, fmt.Errorf("%w: %w", ErrPullFailed, err)
	}

	var result models.PullResult
	for _, record := range records {
		if record.Err != nil {
			log.Warn().Err(record.Err).Msg("skipping untranslatable registry record")
			result.Errors++
			continue
		}

		switch outcome := s.reconcileRecord(ctx, organizationID, record.Snapshot); outcome {
		case pullOutcomeCreated:
			result.Created++
		case pullOutcomeUpdated:
			result.Updated++
		default:
			result.Errors++
		}
	}

	log.Info().
		Str("organization_id", organizationID.String()).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("errors", result.Errors).
		Msg("pull batch reconciled")

	return result, nil
}

type pullOutcome int

const (
	pullOutcomeError pullOutcome = iota
	pullOutcomeCreated
	pullOutcomeUpdated
)

func (s *syncEngine) reconcileRecord(ctx context.Context, organizationID uuid.UUID, remote models.RemoteSnapshot) pullOutcome {
	log := logger.FromContext(ctx)

	local, err := s.contracts.GetByNumber(ctx, organizationID, remote.ContractNumber)
	if errors.Is(err, store.ErrContractNotFound) {
		return s.createFromRemote(ctx, organizationID, remote)
	}
	if err != nil {
		log.Err(err).Str("contract_number", remote.ContractNumber).Msg("failed to load local contract for reconciliation")
		return pullOutcomeError
	}

	conflicts := DetectConflicts(local, remote)
	if len(conflicts) == 0 {
		return s.adoptMetadata(ctx, local, remote)
	}

	if LocalWins(local) {
		merged := keepLocal(local, remote)
		if _, err = s.contracts.Reconcile(ctx, merged); err != nil {
			log.Err(err).Str("contract_id", local.ID.String()).Msg("failed to persist local-wins resolution")
			return pullOutcomeError
		}

		s.appendLog(ctx, models.SyncLogEntry{
			ContractID: local.ID,
			Action:     models.ActionConflictResolved,
			Conflicts:  conflicts,
			Message:    "local version kept; push scheduled",
		})
		s.schedulePush(ctx, local.ID)
		return pullOutcomeUpdated
	}

	merged := applyRemote(local, remote, s.now())
	if _, err = s.contracts.Reconcile(ctx, merged); err != nil {
		log.Err(err).Str("contract_id", local.ID.String()).Msg("failed to persist remote-wins resolution")
		return pullOutcomeError
	}

	s.appendLog(ctx, models.SyncLogEntry{
		ContractID: local.ID,
		Action:     models.ActionConflictResolved,
		Conflicts:  conflicts,
		Message:    "registry version kept",
	})
	return pullOutcomeUpdated
}

// createFromRemote materializes a registry record that has no local
// counterpart yet.
func (s *syncEngine) createFromRemote(ctx context.Context, organizationID uuid.UUID, remote models.RemoteSnapshot) pullOutcome {
	log := logger.FromContext(ctx)

	contract := models.Contract{
		OrganizationID: organizationID,
		ContractNumber: remote.ContractNumber,
		Object:         remote.Object,
		Value:          remote.Value,
		Status:         remote.Status,
		SignDate:       remote.SignDate,
		StartDate:      remote.StartDate,
		EndDate:        remote.EndDate,
		SupplierName:   remote.SupplierName,
		SupplierRole:   fmt.Sprintf("Contratada: %s - CNPJ %s", remote.SupplierName, remote.SupplierTaxID),
	}

	saved, err := s.contracts.Save(ctx, contract)
	if err != nil {
		log.Err(err).Str("contract_number", remote.ContractNumber).Msg("failed to create contract from registry record")
		return pullOutcomeError
	}

	if _, err = s.contracts.MarkSynced(ctx, saved.ID, remote.RemoteID, s.now()); err != nil {
		log.Err(err).Str("contract_id", saved.ID.String()).Msg("created contract but failed to mark it synced")
		return pullOutcomeError
	}

	s.appendLog(ctx, models.SyncLogEntry{
		ContractID: saved.ID,
		Action:     models.ActionPullCreate,
		Message:    "created from registry record " + remote.RemoteID,
	})
	return pullOutcomeCreated
}

// adoptMetadata handles the no-diff case: the business fields agree, so at
// most the sync metadata needs to catch up with the registry.
func (s *syncEngine) adoptMetadata(ctx context.Context, local models.Contract, remote models.RemoteSnapshot) pullOutcome {
	log := logger.FromContext(ctx)

	upToDate := local.RemoteID != nil && *local.RemoteID == remote.RemoteID &&
		local.SyncStatus == models.SyncSynced
	if upToDate {
		return pullOutcomeUpdated
	}

	if _, err := s.contracts.MarkSynced(ctx, local.ID, remote.RemoteID, s.now()); err != nil {
		log.Err(err).Str("contract_id", local.ID.String()).Msg("failed to adopt registry metadata")
		return pullOutcomeError
	}

	s.appendLog(ctx, models.SyncLogEntry{
		ContractID: local.ID,
		Action:     models.ActionPullUpdate,
		Message:    "registry metadata adopted",
	})
	return pullOutcomeUpdated
}

// schedulePush queues the contract for a background push so a local-wins
// resolution propagates outward. A full queue is not an error: the next
// pull resolves the same way and tries again.
func (s *syncEngine) schedulePush(ctx context.Context, contractID uuid.UUID) {
	if s.scheduler == nil {
		return
	}
	if !s.scheduler.Schedule(contractID) {
		logger.FromContext(ctx).Warn().
			Str("contract_id", contractID.String()).
			Msg("push queue full, contract not scheduled")
	}
}

// History implements [SyncEngine].
func (s *syncEngine) History(ctx context.Context, contractID uuid.UUID) ([]models.SyncLogEntry, error) {
	if _, err := s.contracts.GetByID(ctx, contractID); err != nil {
		if errors.Is(err, store.ErrContractNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, err
	}

	return s.syncLog.ListByContract(ctx, contractID)
}

// appendLog writes one audit entry; a failing audit write is logged and
// swallowed so it never masks the operation's own outcome.
func (s *syncEngine) appendLog(ctx context.Context, entry models.SyncLogEntry) {
	if _, err := s.syncLog.Append(ctx, entry); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("contract_id", entry.ContractID.String()).
			Str("action", string(entry.Action)).
			Msg("failed to append sync log entry")
	}
}
