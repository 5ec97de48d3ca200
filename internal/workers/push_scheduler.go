// SPDX-License-Identifier: Apache-2.0

package workers

import (
	"context"
	"errors"

	"github.com/contratoflow/sync-engine/internal/logger"
	"github.com/contratoflow/sync-engine/internal/service"
	"github.com/contratoflow/sync-engine/internal/store"
	"github.com/google/uuid"
)

// PushScheduler decouples contract creation from registry publication: ids
// are queued on a bounded channel and published one at a time by Run. It
// implements both [service.PushScheduler] and [Worker].
type PushScheduler struct {
	engine service.SyncEngine
	queue  chan uuid.UUID
	logger *logger.Logger
}

// NewPushScheduler constructs a scheduler with the given queue capacity.
// A non-positive size falls back to 256.
func NewPushScheduler(engine service.SyncEngine, queueSize int, log *logger.Logger) *PushScheduler {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &PushScheduler{
		engine: engine,
		queue:  make(chan uuid.UUID, queueSize),
		logger: log,
	}
}

// Schedule implements [service.PushScheduler]. It never blocks: when the
// queue is full the id is dropped and false returned; the contract stays
// pending and reaches the registry on the next manual push.
func (s *PushScheduler) Schedule(contractID uuid.UUID) bool {
	select {
	case s.queue <- contractID:
		return true
	default:
		s.logger.Warn().
			Str("contract_id", contractID.String()).
			Msg("push queue full, dropping scheduled push")
		return false
	}
}

// Run implements [Worker]. It publishes queued contracts until ctx is
// cancelled. Push failures are already recorded on the contract and in the
// sync log by the engine, so the worker only re-queues the one class worth
// repeating: transient storage outages.
func (s *PushScheduler) Run(ctx context.Context) error {
	s.logger.Info().Int("capacity", cap(s.queue)).Msg("push scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Int("pending", len(s.queue)).Msg("push scheduler stopped")
			return ctx.Err()
		case contractID := <-s.queue:
			s.push(ctx, contractID)
		}
	}
}

func (s *PushScheduler) push(ctx context.Context, contractID uuid.UUID) {
	_, err := s.engine.Push(ctx, contractID)
	if err == nil {
		return
	}

	if errors.Is(err, store.ErrStorageUnavailable) {
		if s.Schedule(contractID) {
			return
		}
	}

	s.logger.Warn().
		Err(err).
		Str("contract_id", contractID.String()).
		Msg("scheduled push failed")
}
