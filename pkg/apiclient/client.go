// Package apiclient is the JSON transport to the schedule catalog API. It maps
// HTTP outcomes onto the typed errors in pkg/errors and never retries.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/schedule-bot/pkg/errors"
)

const (
	headerAPIKey      = "X-Api-Key"
	headerAdminAPIKey = "X-Admin-Api-Key"

	maxErrorBody = 4 << 10
)

// Observer records remote call outcomes.
type Observer interface {
	ObserveRemoteCall(method, route string, status int, duration time.Duration)
}

// Config wires a Client.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Observer   Observer
	Logger     *zap.Logger
}

// Client issues catalog requests.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	observer   Observer
	logger     *zap.Logger
}

// Request describes a single catalog call. Route is the templated path used
// for metrics and logs; it defaults to Path.
type Request struct {
	Method   string
	Path     string
	Route    string
	Query    url.Values
	Body     interface{}
	AdminKey string
}

// New constructs a catalog client.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		observer:   cfg.Observer,
		logger:     logger,
	}
}

// Get fetches path and decodes the JSON body into dest.
func (c *Client) Get(ctx context.Context, path, route string, query url.Values, dest interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Route: route, Query: query}, dest)
}

// Post sends body as JSON and decodes the response into dest when non-nil.
func (c *Client) Post(ctx context.Context, path string, body, dest interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, dest)
}

// Patch sends a partial update.
func (c *Client) Patch(ctx context.Context, path, route string, body, dest interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Route: route, Body: body}, dest)
}

// Do executes req exactly once.
func (c *Client) Do(ctx context.Context, req Request, dest interface{}) error {
	route := req.Route
	if route == "" {
		route = req.Path
	}

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build catalog request")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.observe(req.Method, route, http.StatusInternalServerError, time.Since(start))
		c.logger.Warn("catalog request failed", zap.String("method", req.Method), zap.String("route", route), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, http.StatusInternalServerError, "catalog request failed")
	}
	defer resp.Body.Close()
	c.observe(req.Method, route, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(resp)
	}

	if dest == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrDataIntegrity.Code, appErrors.ErrDataIntegrity.Status, fmt.Sprintf("malformed catalog response for %s", route))
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set(headerAPIKey, c.apiKey)
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.AdminKey != "" {
		httpReq.Header.Set(headerAdminAPIKey, req.AdminKey)
	}
	return httpReq, nil
}

func (c *Client) observe(method, route string, status int, duration time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRemoteCall(method, route, status, duration)
	}
}

func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	message := remoteMessage(raw)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return appErrors.WithStatus(appErrors.ErrNotFound, resp.StatusCode, fallback(message, appErrors.ErrNotFound.Message))
	case http.StatusBadRequest, http.StatusConflict:
		return appErrors.WithStatus(appErrors.ErrRemoteRejection, resp.StatusCode, fallback(message, appErrors.ErrRemoteRejection.Message))
	default:
		return appErrors.WithStatus(appErrors.ErrRemoteUnavailable, resp.StatusCode, fmt.Sprintf("catalog responded %d", resp.StatusCode))
	}
}

// remoteMessage extracts a human readable reason from JSON problem bodies and
// falls back to the raw text.
func remoteMessage(raw []byte) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return ""
	}
	var problem struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Title   string `json:"title"`
	}
	if err := json.Unmarshal(raw, &problem); err == nil {
		for _, candidate := range []string{problem.Message, problem.Detail, problem.Title} {
			if candidate != "" {
				return candidate
			}
		}
	}
	return trimmed
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
