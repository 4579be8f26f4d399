package fleetapi

import "net/http"

// Header names understood by the tenant API.
const (
	HeaderTenantUUID = "x-tenant-uuid"
	HeaderTenantAuth = "x-tenant-user-auth"
)

// Session holds the request headers shared by every call: the tenant id and
// the current access token. The Authenticator is its only writer.
//
// A Session is not safe for concurrent use; the sync job is sequential.
type Session struct {
	tenantUUID string
	token      string
}

// NewSession creates a session with an initial token from configuration.
func NewSession(tenantUUID, token string) *Session {
	return &Session{tenantUUID: tenantUUID, token: token}
}

// Token returns the current access token.
func (s *Session) Token() string { return s.token }

// SetToken replaces the access token used by subsequent requests.
func (s *Session) SetToken(token string) { s.token = token }

// Apply writes the session headers onto an outgoing request.
func (s *Session) Apply(h http.Header) {
	h.Set("accept", "application/json")
	h.Set("Content-Type", "application/json")
	h.Set(HeaderTenantUUID, s.tenantUUID)
	h.Set(HeaderTenantAuth, s.token)
}
