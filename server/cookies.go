package server

import (
	"net/http"

	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/auth"
)

// setAuthCookies writes both credential cookies. The refresh cookie is
// always httpOnly; its max-age matches the refresh TTL so the browser drops
// it together with the store row's natural expiry.
func (s *Server) setAuthCookies(w http.ResponseWriter, r *http.Request, pair *auth.TokenPair) {
	isSecure := getScheme(r) == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetAccessCookieName(),
		Value:    pair.AccessToken,
		Path:     "/",
		HttpOnly: s.env != "DEV", // client-readable in development only
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   pair.ExpiresIn,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetRefreshCookieName(),
		Value:    pair.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetRefreshTokenExpiry().Seconds()),
	})
}

func (s *Server) clearAuthCookies(w http.ResponseWriter, r *http.Request) {
	isSecure := getScheme(r) == "https"

	for _, name := range []string{s.config.GetAccessCookieName(), s.config.GetRefreshCookieName()} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   isSecure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}
