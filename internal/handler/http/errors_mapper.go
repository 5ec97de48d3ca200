package http

import (
	"errors"
	"net/http"

	"github.com/contratoflow/sync-engine/internal/registry"
	"github.com/contratoflow/sync-engine/internal/resilience"
	"github.com/contratoflow/sync-engine/internal/service"
	"github.com/contratoflow/sync-engine/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrContractNotFound: http.StatusNotFound,
	service.ErrContractInvalid:  http.StatusUnprocessableEntity,

	store.ErrContractNumberTaken: http.StatusConflict,
	store.ErrStaleContract:       http.StatusConflict,
	store.ErrStorageUnavailable:  http.StatusServiceUnavailable,
	store.ErrBuildingSQLQuery:    http.StatusInternalServerError,
	store.ErrExecutingQuery:      http.StatusInternalServerError,
	store.ErrScanningRow:         http.StatusInternalServerError,

	resilience.ErrCircuitOpen: http.StatusServiceUnavailable,
	resilience.ErrTimeout:     http.StatusGatewayTimeout,

	registry.ErrUnauthorized: http.StatusBadGateway,
	registry.ErrRateLimited:  http.StatusBadGateway,
	registry.ErrServerError:  http.StatusBadGateway,
	registry.ErrBadRequest:   http.StatusBadGateway,

	service.ErrPushFailed: http.StatusBadGateway,
	service.ErrPullFailed: http.StatusBadGateway,
}

func statusFromError(err error) int {
	// the specific sentinel wins over the generic wrapper
	for target, status := range errorStatusMap {
		if status == http.StatusBadGateway {
			continue
		}
		if errors.Is(err, target) {
			return status
		}
	}
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
