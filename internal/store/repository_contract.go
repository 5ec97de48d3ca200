// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/contratoflow/sync-engine/internal/logger"
	"github.com/contratoflow/sync-engine/models"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
)

// contractRepository is the PostgreSQL-backed implementation of
// [ContractRepository]. It handles the "contracts" table, including the
// synchronization metadata columns that track each record's relationship to
// the remote registry.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type contractRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewContractRepository constructs a [ContractRepository] backed by the
// provided database connection and logger.
func NewContractRepository(db *DB, logger *logger.Logger) ContractRepository {
	logger.Debug().Msg("creating contract repository")
	return &contractRepository{
		db:     db,
		logger: logger,
	}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(row rowScanner) (models.Contract, error) {
	var contract models.Contract
	err := row.Scan(
		&contract.ID,
		&contract.OrganizationID,
		&contract.ContractNumber,
		&contract.Object,
		&contract.Value,
		&contract.Status,
		&contract.SignDate,
		&contract.StartDate,
		&contract.EndDate,
		&contract.SupplierName,
		&contract.SupplierRole,
		&contract.RemoteID,
		&contract.SyncStatus,
		&contract.SyncedAt,
		&contract.SyncErrorMessage,
		&contract.CreatedAt,
		&contract.UpdatedAt,
		&contract.Version,
	)
	return contract, err
}

// Save persists a new contract record and returns the fully populated
// [models.Contract] with server-assigned fields (ID, CreatedAt, UpdatedAt,
// Version).
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrContractNumberTaken].
//   - Any other driver-level error → wrapped, transient classes carrying
//     [ErrStorageUnavailable].
func (r *contractRepository) Save(ctx context.Context, contract models.Contract) (models.Contract, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, saveContract,
		contract.OrganizationID,
		contract.ContractNumber,
		contract.Object,
		contract.Value,
		contract.Status,
		contract.SignDate,
		contract.StartDate,
		contract.EndDate,
		contract.SupplierName,
		contract.SupplierRole,
		string(models.SyncPending),
	)

	saved, err := scanContract(row)
	if err != nil {
		log.Err(err).Str("func", "*contractRepository.Save").Msg("error: saving contract")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.Contract{}, ErrContractNumberTaken
		default:
			return models.Contract{}, r.db.wrapDriverError(fmt.Errorf("%w: %w", ErrExecutingQuery, err))
		}
	}

	return saved, nil
}

// GetByID retrieves one contract by primary key.
func (r *contractRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Contract, error) {
	log := logger.FromContext(ctx)

	contract, err := scanContract(r.db.QueryRowContext(ctx, getContractByID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Contract{}, ErrContractNotFound
		}
		log.Err(err).Str("func", "*contractRepository.GetByID").Msg("error: querying contract")
		return models.Contract{}, r.db.wrapDriverError(fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}

	return contract, nil
}

// GetByNumber retrieves a contract by its natural key within one
// organization.
func (r *contractRepository) GetByNumber(ctx context.Context, organizationID uuid.UUID, contractNumber string) (models.Contract, error) {
	log := logger.FromContext(ctx)

	contract, err := scanContract(r.db.QueryRowContext(ctx, getContractByNumber, organizationID, contractNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Contract{}, ErrContractNotFound
		}
		log.Err(err).Str("func", "*contractRepository.GetByNumber").Msg("error: querying contract")
		return models.Contract{}, r.db.wrapDriverError(fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}

	return contract, nil
}

// List returns contracts matching the filter, most recently updated first.
func (r *contractRepository) List(ctx context.Context, filter ContractFilter) ([]models.Contract, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "*contractRepository.List").Msg("error: building list query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*contractRepository.List").Msg("error: executing list query")
		return nil, r.db.wrapDriverError(fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}
	defer rows.Close()

	var contracts []models.Contract
	for rows.Next() {
		contract, err := scanContract(rows)
		if err != nil {
			log.Err(err).Str("func", "*contractRepository.List").Msg("error: scanning contract row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		contracts = append(contracts, contract)
	}
	if err = rows.Err(); err != nil {
		return nil, r.db.wrapDriverError(fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}

	return contracts, nil
}

// MarkSynced records a successful publish. remote_id, sync_status and
// synced_at move in one UPDATE so no reader can observe a half-applied
// success; updated_at is deliberately left alone.
func (r *contractRepository) MarkSynced(ctx context.Context, id uuid.UUID, remoteID string, syncedAt time.Time) (models.Contract, error) {
	log := logger.FromContext(ctx)

	contract, err := scanContract(r.db.QueryRowContext(ctx, markContractSynced, id, remoteID, syncedAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Contract{}, ErrContractNotFound
		}
		log.Err(err).Str("func", "*contractRepository.MarkSynced").Msg("error: marking contract synced")
		return models.Contract{}, r.db.wrapDriverError(fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}

	return contract, nil
}

// MarkSyncError stores the failure message for operator inspection.
func (r *contractRepository) MarkSyncError(ctx context.Context, id uuid.UUID, message string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, markContractSyncError, id, message)
	if err != nil {
		log.Err(err).Str("func", "*contractRepository.MarkSyncError").Msg("error: marking contract sync error")
		return r.db.wrapDriverError(fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrContractNotFound
	}

	return nil
}

// Reconcile overwrites the stored row with the merged record. The UPDATE is
// guarded by the version the merge was computed against; a row that moved in
// between yields [ErrStaleContract] so the caller re-reads and re-merges.
func (r *contractRepository) Reconcile(ctx context.Context, contract models.Contract) (models.Contract, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, reconcileContract,
		contract.ID,
		contract.Object,
		contract.Value,
		contract.Status,
		contract.SignDate,
		contract.StartDate,
		contract.EndDate,
		contract.SupplierName,
		contract.SupplierRole,
		contract.RemoteID,
		string(contract.SyncStatus),
		contract.SyncedAt,
		contract.SyncErrorMessage,
		contract.UpdatedAt,
		contract.Version,
	)

	updated, err := scanContract(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// either the row is gone or its version moved; disambiguate
			if _, getErr := r.GetByID(ctx, contract.ID); getErr != nil {
				return models.Contract{}, getErr
			}
			return models.Contract{}, ErrStaleContract
		}
		log.Err(err).Str("func", "*contractRepository.Reconcile").Msg("error: reconciling contract")
		return models.Contract{}, r.db.wrapDriverError(fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}

	return updated, nil
}
