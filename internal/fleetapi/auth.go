package fleetapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// SignInPath is the credential exchange endpoint.
const SignInPath = "/auth/signIn"

// Credentials are the fixed sign-in credentials from configuration.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	Data *struct {
		AccessToken *string `json:"accessToken"`
	} `json:"data"`
}

// Authenticator exchanges credentials for an access token and stores it on
// the session. It talks to the API directly, outside the retry loop.
type Authenticator struct {
	baseURL     string
	credentials Credentials
	session     *Session
	httpClient  *http.Client
	logger      zerolog.Logger
}

// NewAuthenticator creates an Authenticator writing to session.
// httpClient may be nil.
func NewAuthenticator(baseURL string, credentials Credentials, session *Session, httpClient *http.Client, logger zerolog.Logger) *Authenticator {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Authenticator{
		baseURL:     strings.TrimRight(baseURL, "/"),
		credentials: credentials,
		session:     session,
		httpClient:  httpClient,
		logger:      logger.With().Str("component", "auth").Logger(),
	}
}

// Authenticate signs in and updates the session token.
// It returns false, leaving the previous token in place, on any transport
// error, non-2xx status, malformed body or missing token.
func (a *Authenticator) Authenticate(ctx context.Context) bool {
	a.logger.Info().Msg("signing in")

	payload, err := json.Marshal(a.credentials)
	if err != nil {
		a.logger.Error().Err(err).Msg("failed to encode credentials")
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+SignInPath, bytes.NewReader(payload))
	if err != nil {
		a.logger.Error().Err(err).Msg("failed to create sign-in request")
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Error().Err(err).Msg("sign-in request failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		a.logger.Error().Int("status", resp.StatusCode).Msg("sign-in rejected")
		return false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		a.logger.Error().Err(err).Msg("failed to read sign-in response")
		return false
	}

	var parsed signInResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		a.logger.Error().Err(err).Msg("malformed sign-in response")
		return false
	}
	if parsed.Data == nil || parsed.Data.AccessToken == nil || *parsed.Data.AccessToken == "" {
		a.logger.Error().Msg("access token not found in sign-in response")
		return false
	}

	a.session.SetToken(*parsed.Data.AccessToken)
	a.logger.Info().Msg("signed in")
	return true
}
