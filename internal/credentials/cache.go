// SPDX-License-Identifier: Apache-2.0

// Package credentials owns the OAuth2 client-credentials token used against
// the procurement registry.
//
// A single token lives in process memory; it is refreshed on expiry with a
// safety margin, and concurrent refreshes are coalesced into one in-flight
// token request shared by all callers (single-flight). The token value is
// never logged.
package credentials

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/contratoflow/sync-engine/internal/config"
	"github.com/contratoflow/sync-engine/internal/logger"
	"github.com/contratoflow/sync-engine/models"
	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

// ExpiryMargin is subtracted from the recorded token expiry: a token is
// treated as expired once fewer than 5 minutes of validity remain, so that
// long-running operations never start with a token about to lapse.
const ExpiryMargin = 5 * time.Minute

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Cache holds the registry bearer token and refreshes it on demand.
// Safe for concurrent use; the breaker-wrapped callers share one instance
// per process.
type Cache struct {
	client *resty.Client
	cfg    config.Registry
	logger *logger.Logger

	now   func() time.Time
	group singleflight.Group

	mu    sync.RWMutex
	token models.Token
}

// NewCache constructs a Cache posting client-credentials grants to
// cfg.TokenURL with cfg.RequestTimeout per attempt.
func NewCache(cfg config.Registry, log *logger.Logger) *Cache {
	client := resty.New().SetTimeout(cfg.RequestTimeout)

	return &Cache{
		client: client,
		cfg:    cfg,
		logger: log,
		now:    time.Now,
	}
}

// Token returns the cached token while it remains usable (now <
// expiresAt − 5min); otherwise it performs exactly one refresh even under
// concurrent callers — concurrent callers block on the in-flight refresh
// rather than issuing duplicate token requests.
func (c *Cache) Token(ctx context.Context) (models.Token, error) {
	c.mu.RLock()
	cached := c.token
	c.mu.RUnlock()

	if cached.UsableAt(c.now(), ExpiryMargin) {
		return cached, nil
	}

	v, err, _ := c.group.Do("token", func() (any, error) {
		// a concurrent caller may have refreshed while we waited
		c.mu.RLock()
		current := c.token
		c.mu.RUnlock()
		if current.UsableAt(c.now(), ExpiryMargin) {
			return current, nil
		}

		// the refresh outcome is shared by every coalesced waiter, so it
		// must not die with the first caller's context; the client's
		// request timeout still bounds it
		fresh, refreshErr := c.refresh(context.WithoutCancel(ctx))
		if refreshErr != nil {
			return models.Token{}, refreshErr
		}

		c.mu.Lock()
		c.token = fresh
		c.mu.Unlock()

		return fresh, nil
	})
	if err != nil {
		return models.Token{}, err
	}

	return v.(models.Token), nil
}

// Invalidate clears the cache unconditionally. Called by any consumer that
// receives an authorization rejection from the protected API, regardless of
// the recorded expiry; the next Token call refreshes.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.token = models.Token{}
	c.mu.Unlock()

	c.logger.Debug().Msg("credential cache invalidated")
}

func (c *Cache) refresh(ctx context.Context) (models.Token, error) {
	var body tokenResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "client_credentials",
			"client_id":     c.cfg.ClientID,
			"client_secret": c.cfg.ClientSecret,
		}).
		SetResult(&body).
		Post(c.cfg.TokenURL)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %v", ErrTransientAuth, err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden:
		return models.Token{}, fmt.Errorf("%w: http %d", ErrAuthFailure, resp.StatusCode())
	case resp.StatusCode() >= http.StatusMultipleChoices:
		return models.Token{}, fmt.Errorf("%w: token endpoint http %d", ErrTransientAuth, resp.StatusCode())
	}

	if strings.TrimSpace(body.AccessToken) == "" {
		return models.Token{}, fmt.Errorf("%w: empty access token", ErrMalformedResponse)
	}

	issued := c.now()
	expiresAt, err := c.expiryOf(body, issued)
	if err != nil {
		return models.Token{}, err
	}

	// log lifetime only, never the token value
	c.logger.Info().
		Time("expires_at", expiresAt).
		Msg("registry token refreshed")

	return models.Token{AccessToken: body.AccessToken, ExpiresAt: expiresAt}, nil
}

// expiryOf resolves the token expiry from expires_in, falling back to the
// JWT exp claim (unverified parse) for providers that omit the field.
func (c *Cache) expiryOf(body tokenResponse, issued time.Time) (time.Time, error) {
	if body.ExpiresIn > 0 {
		return issued.Add(time.Duration(body.ExpiresIn) * time.Second), nil
	}

	token, _, err := jwt.NewParser().ParseUnverified(body.AccessToken, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: no expires_in and token is not a JWT", ErrMalformedResponse)
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("%w: no expires_in and no exp claim", ErrMalformedResponse)
	}

	return exp.Time, nil
}
