// SPDX-License-Identifier: Apache-2.0

// Package search integrates the auxiliary legal-norm search provider.
// Unlike the registry, search is a non-critical dependency: when it is
// slow, failing, or short-circuited, callers receive a degraded empty
// response flagged IsFallback instead of an error.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/contratoflow/sync-engine/internal/config"
	"github.com/contratoflow/sync-engine/internal/logger"
	"github.com/contratoflow/sync-engine/internal/metrics"
	"github.com/contratoflow/sync-engine/internal/resilience"
	"github.com/contratoflow/sync-engine/models"
	"github.com/go-resty/resty/v2"
)

// Client queries the legal-norm search provider.
type Client interface {
	// Search looks up legal norms and jurisprudence for the query. It
	// never returns an error for provider failures: those produce a
	// fallback response instead. Only a cancelled context surfaces as an
	// error.
	Search(ctx context.Context, query string) (models.SearchResponse, error)
}

type searchResultWire struct {
	Titulo string `json:"titulo"`
	Trecho string `json:"trecho"`
	URL    string `json:"url"`
}

type searchResponseWire struct {
	Resultados []searchResultWire `json:"resultados"`
}

type httpSearchClient struct {
	client  *resty.Client
	invoker *resilience.Invoker[[]models.SearchResult]
	logger  *logger.Logger
}

// NewHTTPClient constructs the REST search client. Successful responses
// are cached for cfg.CacheTTL keyed by the normalized query text, so
// queries differing only in case or whitespace share one entry.
func NewHTTPClient(
	cfg config.Search,
	res config.Resilience,
	collector *metrics.Collector,
	log *logger.Logger,
) (Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("empty search base url")
	}

	opts := resilience.Options{
		Source:            "search",
		MaxRetries:        res.MaxRetries,
		BaseDelay:         res.BaseDelay,
		MaxDelay:          res.MaxDelay,
		AttemptTimeout:    cfg.RequestTimeout,
		ErrorThresholdPct: res.ErrorThresholdPct,
		VolumeThreshold:   res.VolumeThreshold,
		ResetTimeout:      res.ResetTimeout,
		Retryable:         retryableSearchError,
		Cache:             &resilience.CachePolicy{TTL: cfg.CacheTTL},
	}

	return &httpSearchClient{
		client:  resty.New().SetBaseURL(baseURL),
		invoker: resilience.NewInvoker[[]models.SearchResult](opts, collector, log),
		logger:  log,
	}, nil
}

// retryableSearchError classifies the retryable failure class for search
// calls: timeouts, rate limits, 5xx and net-level errors get the retry
// budget before the fallback kicks in. Query rejections are fatal for the
// attempt.
func retryableSearchError(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, resilience.ErrTimeout),
		errors.Is(err, ErrRateLimited),
		errors.Is(err, ErrServerError):
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// mapStatusError translates a non-2xx provider status into the package's
// failure taxonomy.
func mapStatusError(code int) error {
	switch {
	case code < 300:
		return nil
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: http %d", ErrRateLimited, code)
	case code >= 500:
		return fmt.Errorf("%w: http %d", ErrServerError, code)
	default:
		return fmt.Errorf("%w: http %d", ErrBadQuery, code)
	}
}

func (c *httpSearchClient) Search(ctx context.Context, query string) (models.SearchResponse, error) {
	results, err := c.invoker.Do(ctx, query, func(ctx context.Context) ([]models.SearchResult, error) {
		resp, err := c.client.R().
			SetContext(ctx).
			SetQueryParam("q", query).
			Get("/v1/busca")
		if err != nil {
			return nil, fmt.Errorf("search request: %w", err)
		}
		if statusErr := mapStatusError(resp.StatusCode()); statusErr != nil {
			return nil, statusErr
		}

		var body searchResponseWire
		if err = json.Unmarshal(resp.Body(), &body); err != nil {
			return nil, fmt.Errorf("decode search response: %w", err)
		}

		results := make([]models.SearchResult, 0, len(body.Resultados))
		for _, r := range body.Resultados {
			results = append(results, models.SearchResult{
				Title:   r.Titulo,
				Snippet: r.Trecho,
				URL:     r.URL,
			})
		}
		return results, nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return models.SearchResponse{}, ctx.Err()
		}

		// degrade instead of failing: the fallback is built here, past
		// the invoker, so it can never be cached as a real response
		c.logger.Warn().Err(err).Str("query", query).Msg("search degraded to fallback")
		return models.SearchResponse{
			Query:      query,
			Results:    []models.SearchResult{},
			IsFallback: true,
		}, nil
	}

	return models.SearchResponse{Query: query, Results: results}, nil
}
