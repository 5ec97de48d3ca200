// SPDX-License-Identifier: Apache-2.0

package service

import (
	"github.com/contratoflow/sync-engine/internal/logger"
	"github.com/contratoflow/sync-engine/internal/registry"
	"github.com/contratoflow/sync-engine/internal/store"
	"github.com/contratoflow/sync-engine/internal/validators"
)

type Services struct {
	ContractService ContractService
	SyncEngine      SyncEngine
}

// NewServices wires the business layer. The push scheduler is attached
// afterwards via [Services.AttachScheduler] because it needs the sync
// engine to exist first.
func NewServices(storages *store.Storages, adapter registry.Adapter, log *logger.Logger) *Services {
	validator := validators.NewContractValidator()
	engine := NewSyncEngine(storages, adapter, validator, log)

	return &Services{
		ContractService: NewContractService(storages.ContractRepository, validator, nil, log),
		SyncEngine:      engine,
	}
}

// AttachScheduler rebuilds the contract service with the scheduler in
// place and hands it to the sync engine for local-wins follow-up pushes.
// Call once during startup, before serving traffic.
func (s *Services) AttachScheduler(storages *store.Storages, scheduler PushScheduler, log *logger.Logger) {
	s.ContractService = NewContractService(storages.ContractRepository, validatorOf(s), scheduler, log)
	if engine, ok := s.SyncEngine.(*syncEngine); ok {
		engine.scheduler = scheduler
	}
}

func validatorOf(s *Services) validators.Validator {
	if cs, ok := s.ContractService.(*contractService); ok {
		return cs.validator
	}
	return validators.NewContractValidator()
}
