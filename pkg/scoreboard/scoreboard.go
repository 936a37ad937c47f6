// Package scoreboard provides a client for the hosted scoreboard
// service that mirrors competition documents for remote viewers. The
// service is an external collaborator: this package only speaks its
// document API (merge upserts and single reads keyed by collection and
// document id) and classifies transport failures so callers can route
// writes into the offline queue.
package scoreboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/mhruby/catchboard/internal/errors"
	"github.com/mhruby/catchboard/internal/logger"
)

// Client defines the interface for upstream scoreboard operations
type Client interface {
	// Upsert merge-writes fields into a document. Writes with the same
	// document id are idempotent.
	Upsert(ctx context.Context, collection, docID string, fields map[string]interface{}) error
	// GetOnce reads a single document; a missing document returns
	// (nil, nil).
	GetOnce(ctx context.Context, collection, docID string) (map[string]interface{}, error)
	// Ping checks reachability of the service.
	Ping(ctx context.Context) error
	// BaseURL returns the configured service base URL
	BaseURL() string
	// SetBaseURL updates the service base URL
	SetBaseURL(url string)
	// SetToken configures the API token sent with every request
	SetToken(token string)
}

// HTTPClient is a real HTTP client for the scoreboard service
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a new scoreboard HTTP client
func NewHTTPClient(baseURL string, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// NewHTTPClientWithHTTPClient creates a new scoreboard client with a
// custom http.Client, used by tests against httptest servers.
func NewHTTPClientWithHTTPClient(baseURL string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        log,
	}
}

// BaseURL returns the configured service base URL
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// SetBaseURL updates the service base URL
func (c *HTTPClient) SetBaseURL(url string) {
	c.baseURL = url
}

// SetToken configures the API token sent with every request
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

func (c *HTTPClient) docURL(collection, docID string) string {
	return fmt.Sprintf("%s/api/v1/docs/%s/%s", c.baseURL, collection, docID)
}

// Upsert merge-writes fields into an upstream document
func (c *HTTPClient) Upsert(ctx context.Context, collection, docID string, fields map[string]interface{}) error {
	if c.baseURL == "" {
		return apperrors.Unavailable("scoreboard URL not configured", nil)
	}

	body, err := json.Marshal(fields)
	if err != nil {
		return apperrors.Internal(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.docURL(collection, docID), bytes.NewReader(body))
	if err != nil {
		return apperrors.Internal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport failure: the service is unreachable, not rejecting.
		return apperrors.Unavailable("scoreboard unreachable", err)
	}
	defer resp.Body.Close()

	return c.checkStatus(resp, collection, docID)
}

// GetOnce reads a single upstream document
func (c *HTTPClient) GetOnce(ctx context.Context, collection, docID string) (map[string]interface{}, error) {
	if c.baseURL == "" {
		return nil, apperrors.Unavailable("scoreboard URL not configured", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.docURL(collection, docID), nil)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Unavailable("scoreboard unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err := c.checkStatus(resp, collection, docID); err != nil {
		return nil, err
	}

	var fields map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&fields); err != nil {
		return nil, apperrors.Internal(err)
	}
	return fields, nil
}

// Ping checks reachability of the scoreboard service
func (c *HTTPClient) Ping(ctx context.Context) error {
	if c.baseURL == "" {
		return apperrors.Unavailable("scoreboard URL not configured", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/ping", nil)
	if err != nil {
		return apperrors.Internal(err)
	}
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Unavailable("scoreboard unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return apperrors.Unavailable(fmt.Sprintf("scoreboard returned %d", resp.StatusCode), nil)
	}
	if resp.StatusCode >= 400 {
		return apperrors.Internalf("scoreboard ping rejected with %d", resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) setAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *HTTPClient) checkStatus(resp *http.Response, collection, docID string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	c.log.Debug("Scoreboard request failed",
		"collection", collection,
		"doc_id", docID,
		"status", resp.StatusCode,
		"body", string(body))

	// 5xx means the service itself is in trouble; treat like an outage
	// so the write lands in the offline queue instead of being lost.
	if resp.StatusCode >= 500 {
		return apperrors.Unavailable(fmt.Sprintf("scoreboard returned %d", resp.StatusCode), nil)
	}
	return apperrors.Validationf("scoreboard rejected %s/%s with %d", collection, docID, resp.StatusCode)
}
