// SPDX-License-Identifier: Apache-2.0

package store

import "github.com/contratoflow/sync-engine/internal/logger"

type Storages struct {
	ContractRepository ContractRepository
	SyncLogRepository  SyncLogRepository
}

func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		ContractRepository: NewContractRepository(db, log),
		SyncLogRepository:  NewSyncLogRepository(db, log),
	}
}
