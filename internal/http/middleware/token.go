package middleware

import (
	"net/http"
	"strings"
)

// SessionToken extracts a session token from the Authorization header,
// falling back to the named cookie when no Bearer token is sent.
func SessionToken(r *http.Request, cookieName string) string {
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	}
	if cookieName == "" {
		return ""
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}
