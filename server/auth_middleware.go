package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/permissions"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUserID stores the authenticated user ID
	ContextKeyUserID ContextKey = "user_id"
	// ContextKeyRole stores the role claim of the verified token
	ContextKeyRole ContextKey = "role"
)

// BearerToken extracts the candidate access token from a request: the
// Authorization header takes precedence, the access cookie is the fallback.
// Some clients rely on header precedence; keep the order stable.
func (s *Server) BearerToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := r.Cookie(s.config.GetAccessCookieName()); err == nil {
		return cookie.Value
	}
	return ""
}

// RequireAuth validates the bearer access token before the endpoint's own
// logic runs; no part of the request body is processed on failure. On
// success the verified identity is attached to the request context.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			intro := s.codec.Verify(s.BearerToken(r), token.TypeAccess)
			if !intro.Active {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, intro.UserID)
			ctx = context.WithValue(ctx, ContextKeyRole, intro.Role)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireCapability enforces a single capability for the already
// authenticated role. Chain after RequireAuth. The response never names the
// capability that was required.
func (s *Server) RequireCapability(capability permissions.Capability) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			role, _ := r.Context().Value(ContextKeyRole).(string)

			allowed, err := s.perms.Allowed(r.Context(), permissions.Role(role), capability)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if !allowed {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next(w, r)
		}
	}
}
