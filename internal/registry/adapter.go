package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/contratoflow/sync-engine/internal/config"
	"github.com/contratoflow/sync-engine/internal/credentials"
	"github.com/contratoflow/sync-engine/internal/logger"
	"github.com/contratoflow/sync-engine/internal/metrics"
	"github.com/contratoflow/sync-engine/internal/resilience"
	"github.com/contratoflow/sync-engine/models"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

type httpRegistryAdapter struct {
	client *resty.Client
	tokens TokenProvider
	logger *logger.Logger

	publish *resilience.Invoker[string]
	list    *resilience.Invoker[[]RemoteRecord]
}

// NewHTTPAdapter constructs the REST implementation of [Adapter]. Every
// outbound call runs through its own resilience invoker sharing the
// "registry" breaker tuning; responses are never cached here because both
// operations are writes or must observe fresh registry state.
func NewHTTPAdapter(
	cfg config.Registry,
	res config.Resilience,
	tokens TokenProvider,
	collector *metrics.Collector,
	log *logger.Logger,
) (Adapter, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("empty registry base url")
	}

	client := resty.New().SetBaseURL(baseURL)

	opts := resilience.Options{
		Source:            "registry",
		MaxRetries:        res.MaxRetries,
		BaseDelay:         res.BaseDelay,
		MaxDelay:          res.MaxDelay,
		AttemptTimeout:    cfg.RequestTimeout,
		ErrorThresholdPct: res.ErrorThresholdPct,
		VolumeThreshold:   res.VolumeThreshold,
		ResetTimeout:      res.ResetTimeout,
		Retryable:         retryableRegistryError,
	}

	return &httpRegistryAdapter{
		client:  client,
		tokens:  tokens,
		logger:  log,
		publish: resilience.NewInvoker[string](opts, collector, log),
		list:    resilience.NewInvoker[[]RemoteRecord](opts, collector, log),
	}, nil
}

// retryableRegistryError classifies the retryable failure class for
// registry calls: timeouts, rate limits, 5xx, transient token endpoint
// failures, and net-level errors. Auth failures, validation rejections and
// not-found are fatal for the attempt.
func retryableRegistryError(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, resilience.ErrTimeout),
		errors.Is(err, ErrRateLimited),
		errors.Is(err, ErrServerError),
		errors.Is(err, credentials.ErrTransientAuth):
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// Publish implements [Adapter]. Contracts without a RemoteID are created
// with POST /v1/contratos; known ones are updated in place with PUT. On an
// authorization rejection the token cache is invalidated before the error
// surfaces, so the next operation starts with a fresh token.
func (h *httpRegistryAdapter) Publish(ctx context.Context, contract models.Contract) (string, error) {
	payload, err := toWire(contract)
	if err != nil {
		return "", err
	}

	return h.publish.Do(ctx, "", func(ctx context.Context) (string, error) {
		token, err := h.tokens.Token(ctx)
		if err != nil {
			return "", fmt.Errorf("obtain registry token: %w", err)
		}

		var body publishResponse
		req := h.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetAuthToken(token.AccessToken).
			SetBody(payload).
			SetResult(&body)

		var resp *resty.Response
		if contract.RemoteID != nil {
			resp, err = req.Put("/v1/contratos/" + *contract.RemoteID)
		} else {
			resp, err = req.Post("/v1/contratos")
		}
		if err != nil {
			return "", fmt.Errorf("publish request: %w", err)
		}
		if err = h.mapResponse(resp); err != nil {
			return "", err
		}

		if body.ID == "" {
			if contract.RemoteID != nil {
				return *contract.RemoteID, nil
			}
			return "", fmt.Errorf("%w: publish response carried no id", ErrTranslation)
		}
		return body.ID, nil
	})
}

// List implements [Adapter]. Per-record translation failures are returned
// in place (RemoteRecord.Err) so the pull batch can count them without
// aborting.
func (h *httpRegistryAdapter) List(ctx context.Context, organizationID uuid.UUID) ([]RemoteRecord, error) {
	return h.list.Do(ctx, "", func(ctx context.Context) ([]RemoteRecord, error) {
		token, err := h.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("obtain registry token: %w", err)
		}

		resp, err := h.client.R().
			SetContext(ctx).
			SetAuthToken(token.AccessToken).
			SetQueryParam("orgaoId", organizationID.String()).
			Get("/v1/contratos")
		if err != nil {
			return nil, fmt.Errorf("list request: %w", err)
		}
		if err = h.mapResponse(resp); err != nil {
			return nil, err
		}

		var body listResponse
		if err = json.Unmarshal(resp.Body(), &body); err != nil {
			return nil, fmt.Errorf("decode list response: %w", err)
		}

		records := make([]RemoteRecord, 0, len(body.Data))
		for _, rec := range body.Data {
			snapshot, translateErr := fromWire(rec)
			records = append(records, RemoteRecord{Snapshot: snapshot, Err: translateErr})
		}
		return records, nil
	})
}

func (h *httpRegistryAdapter) mapResponse(resp *resty.Response) error {
	err := mapHTTPError(resp)
	if errors.Is(err, ErrUnauthorized) {
		// stale or revoked token: force the next call to refresh
		h.tokens.Invalidate()
	}
	return err
}
