// Package auth implements the token codec (HS256 JWTs with structured
// claims) and the password hashing primitives used by the session service.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/RTHeLL/mg-test/internal/common"
)

// TokenType distinguishes access and refresh tokens. A token is only valid
// at the endpoint that expects its type.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the claims set carried by issued tokens. The JSON field names
// (tokenType, userId, isAdmin, isActive, jti, iat, exp) are a compatibility
// surface: consumers decoding our tokens depend on them.
type Claims struct {
	TokenType TokenType `json:"tokenType"`
	UserID    int64     `json:"userId"`
	IsAdmin   bool      `json:"isAdmin"`
	IsActive  bool      `json:"isActive"`
	jwt.RegisteredClaims
}

// Codec creates and verifies signed tokens. The signing secret and the two
// lifetimes are fixed at construction and shared read-only across requests.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec constructs a Codec with the given symmetric secret and the
// independent access/refresh token lifetimes.
func NewCodec(secret []byte, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// AccessTTL returns the configured access token lifetime.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// IssueAccess signs a short-lived access token. The refresh session id (jti)
// is stamped into access tokens too, for traceability.
func (c *Codec) IssueAccess(userID int64, isAdmin, isActive bool, jti string) (string, error) {
	return c.issue(TokenTypeAccess, userID, isAdmin, isActive, jti, c.accessTTL)
}

// IssueRefresh signs a long-lived refresh token carrying the same identity
// fields and jti as its paired access token.
func (c *Codec) IssueRefresh(userID int64, isAdmin, isActive bool, jti string) (string, error) {
	return c.issue(TokenTypeRefresh, userID, isAdmin, isActive, jti, c.refreshTTL)
}

func (c *Codec) issue(tokenType TokenType, userID int64, isAdmin, isActive bool, jti string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		TokenType: tokenType,
		UserID:    userID,
		IsAdmin:   isAdmin,
		IsActive:  isActive,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	return token.SignedString(c.secret)
}

// Parse verifies a token's signature and expiry and returns its claims.
// Malformed, tampered, expired, or wrongly signed tokens all come back as
// common.ErrorInvalidToken; callers must additionally check TokenType.
func (c *Codec) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, common.ErrorInvalidToken
	}

	return claims, nil
}
