package api

import (
	"net/http"
	"time"

	"github.com/RTHeLL/mg-test/internal/server/config"
)

// RefreshCookieName is the cookie carrying the refresh token.
const RefreshCookieName = "refreshToken"

// refreshCookiePath scopes the cookie to the auth endpoints so the refresh
// token is never sent with ordinary API calls.
const refreshCookiePath = "/api/v1/auth"

func (s *Server) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		Expires:  time.Now().Add(s.codec.RefreshTTL()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.environment != config.EnvDevelopment,
	})
}

func (s *Server) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func refreshTokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
