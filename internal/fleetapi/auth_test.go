package fleetapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantOK    bool
		wantToken string
	}{
		{"success", http.StatusOK, `{"data":{"accessToken":"new-token"}}`, true, "new-token"},
		{"created", http.StatusCreated, `{"data":{"accessToken":"new-token"}}`, true, "new-token"},
		{"missing token", http.StatusOK, `{"data":{}}`, false, "old-token"},
		{"empty token", http.StatusOK, `{"data":{"accessToken":""}}`, false, "old-token"},
		{"missing data", http.StatusOK, `{"message":"ok"}`, false, "old-token"},
		{"malformed", http.StatusOK, `not json`, false, "old-token"},
		{"rejected", http.StatusBadRequest, `{"data":{"accessToken":"x"}}`, false, "old-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var creds Credentials
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, SignInPath, r.URL.Path)
				assert.Equal(t, http.MethodPost, r.Method)
				require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			session := NewSession(testTenant, "old-token")
			auth := NewAuthenticator(srv.URL, Credentials{Email: "sync@example.com", Password: "pw"}, session, nil, zerolog.Nop())

			assert.Equal(t, tt.wantOK, auth.Authenticate(context.Background()))
			assert.Equal(t, tt.wantToken, session.Token())
			assert.Equal(t, "sync@example.com", creds.Email)
			assert.Equal(t, "pw", creds.Password)
		})
	}
}

func TestAuthenticateTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	session := NewSession(testTenant, "old-token")
	auth := NewAuthenticator(url, Credentials{}, session, nil, zerolog.Nop())

	assert.False(t, auth.Authenticate(context.Background()))
	assert.Equal(t, "old-token", session.Token())
}

// The client and authenticator share the session: after a 401 the retried
// request carries the new token.
func TestClientWithAuthenticator(t *testing.T) {
	var signIns int
	var vehicleCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SignInPath:
			signIns++
			w.Write([]byte(`{"data":{"accessToken":"fresh"}}`))
		case VehiclePath:
			vehicleCalls++
			if r.Header.Get(HeaderTenantAuth) != "fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"data":[{"id":7,"license_plate":"ABC1D23"}]}`))
		}
	}))
	defer srv.Close()

	session := NewSession(testTenant, "stale")
	auth := NewAuthenticator(srv.URL, Credentials{Email: "a@b.com", Password: "x"}, session, nil, zerolog.Nop())
	c := NewClient(Options{BaseURL: srv.URL, MaxRetries: 3}, session, auth, zerolog.Nop())

	vehicle, err := c.FindVehicleByPlate(context.Background(), "ABC1D23")
	require.NoError(t, err)
	require.NotNil(t, vehicle)

	assert.Equal(t, 7, vehicle.ID)
	assert.Equal(t, 1, signIns)
	assert.Equal(t, 2, vehicleCalls)
}
