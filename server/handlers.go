package server

import (
	"encoding/json"
	"net/http"

	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/auth"
	ierrors "github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/internal/errors"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/users"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json; charset=utf-8"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int         `json:"expiresIn"`
	User         *users.User `json:"user"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LoginHandler exchanges collaborator-verified credentials for an
// access/refresh pair and sets both cookies.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		pair, user, err := s.auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			s.writeAuthError(w, err)
			return
		}

		s.setAuthCookies(w, r, pair)
		writeJSON(w, http.StatusOK, loginResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			ExpiresIn:    pair.ExpiresIn,
			User:         user,
		})
	}
}

// RefreshHandler rotates the presented refresh token. The token may arrive
// in the JSON body or in the refresh cookie; on success the replaced token
// is dead and both cookies carry the new pair.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawToken := s.refreshTokenFromRequest(r)
		if rawToken == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		pair, err := s.auth.Refresh(r.Context(), rawToken)
		if err != nil {
			// A refresh token for a deleted user is indistinguishable from a
			// revoked one at this endpoint.
			if ierrors.Is(err, ierrors.ErrMissingSubject) {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			s.writeAuthError(w, err)
			return
		}

		s.setAuthCookies(w, r, pair)
		writeJSON(w, http.StatusOK, pair)
	}
}

// LogoutHandler invalidates the presented refresh token and clears the auth
// cookies. Idempotent: always 200 unless the store itself fails.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.Logout(r.Context(), s.refreshTokenFromRequest(r)); err != nil {
			s.writeAuthError(w, err)
			return
		}

		s.clearAuthCookies(w, r)
		writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
	}
}

// SessionHandler returns the full authorization snapshot for the presented
// access token. 401 for an invalid credential, 404 when the user behind a
// still-valid token no longer exists.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := s.sessions.Resolve(r.Context(), s.BearerToken(r))
		if err != nil {
			if ierrors.Is(err, ierrors.ErrMissingSubject) {
				writeError(w, http.StatusNotFound, "not found")
				return
			}
			s.writeAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snapshot)
	}
}

// MeHandler returns the minimal identity of the authenticated user. Requires
// RequireAuth in front of it.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := r.Context().Value(ContextKeyUserID).(string)

		user, err := s.users.GetByID(r.Context(), userID)
		if err != nil {
			if ierrors.Is(err, ierrors.ErrNotFound) {
				writeError(w, http.StatusNotFound, "not found")
				return
			}
			s.writeAuthError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  string(user.Role),
		})
	}
}

// AdminUsersHandler lists user accounts. Gated by the users:manage
// capability via RequireCapability.
func (s *Server) AdminUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.users.List(r.Context(), 0, 100)
		if err != nil {
			s.writeAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) refreshTokenFromRequest(r *http.Request) string {
	var req refreshRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.RefreshToken != "" {
		return req.RefreshToken
	}
	if cookie, err := r.Cookie(s.config.GetRefreshCookieName()); err == nil {
		return cookie.Value
	}
	return ""
}

// writeAuthError maps the core failure shapes to status codes. Credential
// failures share one response body so clients cannot tell a forged token
// from an expired or revoked one.
func (s *Server) writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case ierrors.Is(err, auth.ErrInvalidCredential), ierrors.Is(err, auth.ErrRevokedCredential):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case ierrors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	default:
		log.Err(err).Msg("auth request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
