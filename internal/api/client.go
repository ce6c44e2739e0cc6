// internal/api/client.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"scholarstream/internal/common/errors"
	"scholarstream/internal/common/httpx"
	"scholarstream/internal/common/logger"
	"scholarstream/internal/common/metrics"
)

// TokenSource supplies the bearer token for secure requests.
type TokenSource func(ctx context.Context) (string, error)

// UnauthorizedHandler is invoked once, centrally, when the backend answers
// 401/403: it forces a sign-out and records the original destination so
// the user returns there after re-authenticating.
type UnauthorizedHandler func(originPath string)

// PublicClient issues anonymous requests for catalog browsing and token
// issuance.
type PublicClient struct {
	baseURL string
	http    *httpx.Client
	logger  logger.Logger
}

func NewPublicClient(baseURL string, timeout time.Duration, log logger.Logger) *PublicClient {
	return &PublicClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpx.NewClient(timeout),
		logger:  log.WithFields(map[string]interface{}{"client": "public"}),
	}
}

func (c *PublicClient) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	return execute(ctx, c.http, "public", c.baseURL, method, path, query, nil, body, out)
}

// SecureClient attaches the bearer token to every request. Authorization
// failures are not the caller's problem: the handler signs the session out
// and the caller gets an AuthorizationError it can ignore.
type SecureClient struct {
	baseURL        string
	http           *httpx.Client
	tokens         TokenSource
	onUnauthorized UnauthorizedHandler
	logger         logger.Logger
}

func NewSecureClient(baseURL string, timeout time.Duration, tokens TokenSource, onUnauthorized UnauthorizedHandler, log logger.Logger) *SecureClient {
	return &SecureClient{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		http:           httpx.NewClient(timeout),
		tokens:         tokens,
		onUnauthorized: onUnauthorized,
		logger:         log.WithFields(map[string]interface{}{"client": "secure"}),
	}
}

func (c *SecureClient) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	token, err := c.tokens(ctx)
	if err != nil {
		return errors.NewNetworkError(fmt.Errorf("load bearer token: %w", err))
	}

	headers := map[string]string{}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	err = execute(ctx, c.http, "secure", c.baseURL, method, path, query, headers, body, out)
	if errors.HasCode(err, errors.ErrCodeAuthorization) {
		c.logger.Warn("authorization failure, forcing sign-out", map[string]interface{}{
			"path": path,
		})
		if c.onUnauthorized != nil {
			c.onUnauthorized(path)
		}
	}
	return err
}

func execute(ctx context.Context, client *httpx.Client, clientName, baseURL, method, path string, query url.Values, headers map[string]string, body, out interface{}) error {
	endpoint := baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	status, raw, err := client.DoJSON(ctx, method, endpoint, headers, body, out)
	metrics.APIRequests.WithLabelValues(clientName, method, fmt.Sprintf("%d", status)).Inc()
	if err != nil {
		return errors.NewNetworkError(err)
	}

	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return errors.NewAuthorizationError(status, path)
	case status == http.StatusNotFound:
		return errors.NewNotFoundError("resource", path)
	default:
		return errors.NewBackendError(status, string(raw))
	}
}
