// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/contratoflow/sync-engine/internal/logger"
	"github.com/contratoflow/sync-engine/internal/store"
	"github.com/contratoflow/sync-engine/internal/validators"
	"github.com/contratoflow/sync-engine/models"
	"github.com/google/uuid"
)

type contractService struct {
	contracts store.ContractRepository
	validator validators.Validator
	scheduler PushScheduler

	logger *logger.Logger
}

// NewContractService constructs a [ContractService]. scheduler may be nil
// when asynchronous publication is disabled; creations then simply stay
// pending.
func NewContractService(
	contracts store.ContractRepository,
	validator validators.Validator,
	scheduler PushScheduler,
	log *logger.Logger,
) ContractService {
	return &contractService{
		contracts: contracts,
		validator: validator,
		scheduler: scheduler,
		logger:    log,
	}
}

// CreateContract validates and persists a new contract, then hands its id
// to the push scheduler. A full queue is not an error: the contract stays
// pending and is picked up by a later manual push.
func (c *contractService) CreateContract(ctx context.Context, contract models.Contract) (models.Contract, error) {
	log := logger.FromContext(ctx)

	if err := c.validator.Validate(ctx, contract); err != nil {
		return models.Contract{}, fmt.Errorf("%w: %w", ErrContractInvalid, err)
	}

	saved, err := c.contracts.Save(ctx, contract)
	if err != nil {
		return models.Contract{}, err
	}

	if c.scheduler != nil && !c.scheduler.Schedule(saved.ID) {
		log.Warn().
			Str("contract_id", saved.ID.String()).
			Msg("push queue full, contract left pending")
	}

	return saved, nil
}

// GetContract returns one contract by id.
func (c *contractService) GetContract(ctx context.Context, id uuid.UUID) (models.Contract, error) {
	contract, err := c.contracts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrContractNotFound) {
			return models.Contract{}, ErrContractNotFound
		}
		return models.Contract{}, err
	}
	return contract, nil
}

// ListContracts returns contracts matching the filter.
func (c *contractService) ListContracts(ctx context.Context, filter store.ContractFilter) ([]models.Contract, error) {
	return c.contracts.List(ctx, filter)
}
