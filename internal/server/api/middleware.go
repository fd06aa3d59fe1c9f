package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/RTHeLL/mg-test/internal/server/auth"
)

type ctxKey string

const identityKey ctxKey = "identity"

// IdentityFromContext returns the claims attached by the authenticate
// middleware, or nil when the request was not authenticated.
func IdentityFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(identityKey).(*auth.Claims)
	return claims
}

// authenticate is the identity guard. It extracts the bearer credential
// from the Authorization header, verifies it, requires an access-typed token
// belonging to an active principal, and attaches the claims to the request
// context for downstream handlers.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			s.writeError(w, r, http.StatusUnauthorized, "unauthorized")
			return
		}

		bearer, token, found := strings.Cut(header, " ")
		if !found || bearer != "Bearer" || token == "" {
			s.writeError(w, r, http.StatusUnauthorized, "unauthorized")
			return
		}

		claims, err := s.codec.Parse(token)
		if err != nil {
			s.writeError(w, r, http.StatusUnauthorized, "unauthorized")
			return
		}
		if claims.TokenType != auth.TokenTypeAccess || !claims.IsActive {
			s.writeError(w, r, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin is the admin guard. It runs after authenticate and is a pure
// predicate over the already-validated claims: no I/O. The admin flag is
// trusted from the token, so revoking admin rights takes effect only once
// the access token expires; that staleness is bounded by the access TTL.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := IdentityFromContext(r.Context())
		if claims == nil {
			s.writeError(w, r, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !claims.IsAdmin {
			s.writeError(w, r, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}
