// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/contratoflow/sync-engine/internal/logger"
	"github.com/contratoflow/sync-engine/models"
	"github.com/google/uuid"
)

// syncLogRepository is the PostgreSQL-backed implementation of
// [SyncLogRepository]. The sync_log table is append-only: entries are never
// updated or deleted, so the history of every contract's reconciliations
// stays auditable. Field conflicts are stored as a jsonb document.
type syncLogRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSyncLogRepository constructs a [SyncLogRepository] backed by the
// provided database connection and logger.
func NewSyncLogRepository(db *DB, logger *logger.Logger) SyncLogRepository {
	logger.Debug().Msg("creating sync log repository")
	return &syncLogRepository{
		db:     db,
		logger: logger,
	}
}

func scanSyncLogEntry(row rowScanner) (models.SyncLogEntry, error) {
	var entry models.SyncLogEntry
	var conflicts []byte

	err := row.Scan(
		&entry.ID,
		&entry.ContractID,
		&entry.Action,
		&conflicts,
		&entry.Message,
		&entry.OccurredAt,
	)
	if err != nil {
		return models.SyncLogEntry{}, err
	}

	if len(conflicts) > 0 {
		if err = json.Unmarshal(conflicts, &entry.Conflicts); err != nil {
			return models.SyncLogEntry{}, fmt.Errorf("%w: decoding conflicts: %w", ErrScanningRow, err)
		}
	}

	return entry, nil
}

// Append writes one history entry and returns it with server-assigned ID
// and OccurredAt.
func (r *syncLogRepository) Append(ctx context.Context, entry models.SyncLogEntry) (models.SyncLogEntry, error) {
	log := logger.FromContext(ctx)

	var conflicts any
	if len(entry.Conflicts) > 0 {
		encoded, err := json.Marshal(entry.Conflicts)
		if err != nil {
			return models.SyncLogEntry{}, fmt.Errorf("encoding conflicts: %w", err)
		}
		conflicts = encoded
	}

	row := r.db.QueryRowContext(ctx, appendSyncLog,
		entry.ContractID,
		string(entry.Action),
		conflicts,
		entry.Message,
	)

	saved, err := scanSyncLogEntry(row)
	if err != nil {
		log.Err(err).Str("func", "*syncLogRepository.Append").Msg("error: appending sync log entry")
		return models.SyncLogEntry{}, r.db.wrapDriverError(fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}

	return saved, nil
}

// ListByContract returns a contract's full history, oldest first.
func (r *syncLogRepository) ListByContract(ctx context.Context, contractID uuid.UUID) ([]models.SyncLogEntry, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listSyncLogByContract, contractID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		log.Err(err).Str("func", "*syncLogRepository.ListByContract").Msg("error: querying sync log")
		return nil, r.db.wrapDriverError(fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}
	defer rows.Close()

	var entries []models.SyncLogEntry
	for rows.Next() {
		entry, err := scanSyncLogEntry(rows)
		if err != nil {
			log.Err(err).Str("func", "*syncLogRepository.ListByContract").Msg("error: scanning sync log row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, r.db.wrapDriverError(fmt.Errorf("%w: %w", ErrExecutingQuery, err))
	}

	return entries, nil
}
