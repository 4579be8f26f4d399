// =============================================================================
// Fuel Supply Sync - Fleet API Client
// =============================================================================
//
// This module wraps every call to the fleet-management API with a bounded
// retry loop and automatic sign-in when the API rejects the current token.
//
// RETRY POLICY (per request):
//   - 200 / 201          : returned immediately
//   - 401                : sign in again, then repeat the same request at once
//                          (uses an attempt, no delay). If sign-in fails the
//                          call ends with ErrAuthFailure.
//   - any other status   : wait RetryDelay and try again; once attempts are
//                          exhausted the last response is returned as-is
//   - no response at all : wait RetryDelay and try again; once attempts are
//                          exhausted the call ends with ErrConnectionFailure
//
// The delay is fixed, not exponential.
//
// =============================================================================

package fleetapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Client.
type Options struct {
	// BaseURL is the tenant API root, e.g. "https://api.example.com".
	BaseURL string

	// MaxRetries bounds the attempts per request. Values below 1 mean 1.
	MaxRetries int

	// RetryDelay is the fixed pause between attempts.
	RetryDelay time.Duration

	// Timeout bounds a single HTTP exchange. 0 keeps the transport default.
	Timeout time.Duration

	// DryRun answers POST requests locally with a synthetic 201 instead of
	// sending them. GET requests are unaffected.
	DryRun bool

	// HTTPClient overrides the client used to send requests.
	HTTPClient *http.Client
}

// Reauthenticator refreshes the session token after a 401.
type Reauthenticator interface {
	Authenticate(ctx context.Context) bool
}

// =============================================================================
// RESPONSE
// =============================================================================

// Response is a received HTTP response with its body already read.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status is one the API uses for success.
func (r *Response) OK() bool {
	return r != nil && (r.StatusCode == http.StatusOK || r.StatusCode == http.StatusCreated)
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// dryRunBody is what a skipped POST answers with.
var dryRunBody = []byte(`{"data":{"id":0}}`)

// =============================================================================
// CLIENT
// =============================================================================

// Client sends requests to the fleet API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	auth       Reauthenticator
	maxRetries int
	retryDelay time.Duration
	dryRun     bool
	logger     zerolog.Logger

	// sleep waits between attempts. Replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a client. auth may be nil, in which case a 401 ends the
// call with ErrAuthFailure.
func NewClient(opts Options, session *Session, auth Reauthenticator, logger zerolog.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		session:    session,
		auth:       auth,
		maxRetries: maxRetries,
		retryDelay: opts.RetryDelay,
		dryRun:     opts.DryRun,
		logger:     logger.With().Str("component", "fleetapi").Logger(),
		sleep:      sleepContext,
	}
}

// Get sends a GET request with the given query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post sends a POST request with body encoded as JSON.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

// Do sends a request following the retry policy described at the top of
// this file.
//
// RETURNS:
//   - The response when the API answered 200/201, or the last non-2xx
//     response once attempts are exhausted (error is nil in both cases).
//   - ErrAuthFailure when signing in again failed.
//   - ErrConnectionFailure (wrapped) when no response was ever received.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	method = strings.ToUpper(method)
	if method != http.MethodGet && method != http.MethodPost {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	log := c.logger.With().Str("method", method).Str("path", path).Logger()

	if c.dryRun && method == http.MethodPost {
		log.Info().Int("bytes", len(payload)).Msg("dry-run: request not sent")
		return &Response{StatusCode: http.StatusCreated, Body: dryRunBody}, nil
	}

	var last *Response
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		resp, err := c.send(ctx, method, endpoint, payload)
		if err != nil {
			if attempt < c.maxRetries {
				log.Warn().Err(err).Int("attempt", attempt).Int("max", c.maxRetries).
					Dur("delay", c.retryDelay).Msg("connection error, retrying")
				if err := c.sleep(ctx, c.retryDelay); err != nil {
					return nil, err
				}
				continue
			}
			log.Error().Err(err).Int("attempts", attempt).Msg("connection error, giving up")
			return nil, fmt.Errorf("%w: %s %s after %d attempts: %w", ErrConnectionFailure, method, path, attempt, err)
		}
		last = resp

		if resp.OK() {
			return resp, nil
		}

		if resp.StatusCode == http.StatusUnauthorized {
			log.Warn().Int("attempt", attempt).Int("max", c.maxRetries).Msg("unauthorized, signing in again")
			if c.auth != nil && c.auth.Authenticate(ctx) {
				continue
			}
			log.Error().Msg("reauthentication failed")
			return nil, fmt.Errorf("%w: %s %s", ErrAuthFailure, method, path)
		}

		if attempt < c.maxRetries {
			log.Warn().Int("status", resp.StatusCode).Int("attempt", attempt).Int("max", c.maxRetries).
				Dur("delay", c.retryDelay).Msg("request failed, retrying")
			if err := c.sleep(ctx, c.retryDelay); err != nil {
				return nil, err
			}
			continue
		}
		log.Error().Int("status", resp.StatusCode).Int("attempts", attempt).Msg("request failed, giving up")
		return resp, nil
	}

	// Only reached when the final attempt was a 401 followed by a
	// successful sign-in.
	return last, nil
}

// send performs a single HTTP exchange and reads the whole body.
func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte) (*Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.session.Apply(req.Header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
