// Package services contains server-side business logic. This file implements
// SessionService: credential verification, token issuance, refresh-token
// rotation, and logout.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/RTHeLL/mg-test/internal/common"
	"github.com/RTHeLL/mg-test/internal/logging"
	"github.com/RTHeLL/mg-test/internal/server/auth"
	"github.com/RTHeLL/mg-test/internal/server/models"
	"github.com/RTHeLL/mg-test/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token
// minted together around one refresh session (shared jti).
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SignUpData carries the fields needed to create a principal. Password is
// plaintext here and hashed before it reaches the store.
type SignUpData struct {
	Email       string
	PhoneNumber string
	Password    string
	FirstName   string
	LastName    string
}

// SessionService drives the session lifecycle:
// Anonymous -> Authenticated -> Refreshed -> Revoked.
//
// All durable state lives in the user and session stores; the service keeps
// no mutable in-process state and is safe for concurrent use.
type SessionService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	codec  *auth.Codec
	logger logging.Logger
}

// NewSessionService constructs a SessionService. The codec carries the
// signing secret and TTLs, fixed at process start.
func NewSessionService(db *sql.DB, repos repomanager.RepositoryManager, codec *auth.Codec, logger logging.Logger) *SessionService {
	return &SessionService{db: db, repos: repos, codec: codec, logger: logger}
}

// SignUp creates a new principal. Email and phone conflicts surface as
// ErrorEmailExists/ErrorPhoneExists; other store failures are logged and
// collapsed into ErrorInternal.
func (s *SessionService) SignUp(ctx context.Context, data SignUpData) (*models.User, error) {
	hashed, err := auth.HashPassword(data.Password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Email:       data.Email,
		PhoneNumber: data.PhoneNumber,
		Password:    hashed,
		FirstName:   data.FirstName,
		LastName:    data.LastName,
	}

	created, err := s.repos.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorEmailExists) || errors.Is(err, common.ErrorPhoneExists) {
			return nil, err
		}
		s.logger.Error(ctx, "user creation failed", "operation", "signUp", "email", data.Email, "error", err.Error())
		return nil, common.ErrorInternal
	}

	return created, nil
}

// SignIn verifies credentials and, on success, issues a fresh TokenPair and
// upserts the refresh session for (user, userAgent).
//
// An unknown identifier and a wrong password both return
// ErrorInvalidCredentials; the unknown-identifier path still performs a
// bcrypt comparison so the two failures have a similar timing profile.
func (s *SessionService) SignIn(ctx context.Context, emailOrPhone, password, userAgent string) (*TokenPair, error) {
	user, err := s.repos.Users(s.db).FindByEmailOrPhone(ctx, emailOrPhone)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.CheckDummyPassword(password)
			return nil, common.ErrorInvalidCredentials
		}
		s.logger.Error(ctx, "user lookup failed", "operation", "signIn", "userAgent", userAgent, "error", err.Error())
		return nil, common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.Password) {
		return nil, common.ErrorInvalidCredentials
	}

	// A deactivated principal cannot obtain tokens. Same error as a bad
	// password so the account state is not observable from outside.
	if !user.IsActive {
		return nil, common.ErrorInvalidCredentials
	}

	return s.getTokens(ctx, user, userAgent)
}

// Refresh exchanges a refresh token for a new TokenPair, rotating the
// backing session. The located session row is deleted before the outcome is
// decided, which makes every refresh token single-use: a token backed by a
// stale session cannot be replayed even if the caller retries.
func (s *SessionService) Refresh(ctx context.Context, refreshToken, userAgent string) (*TokenPair, error) {
	claims, err := s.codec.Parse(refreshToken)
	if err != nil {
		return nil, common.ErrorInvalidToken
	}
	if claims.TokenType != auth.TokenTypeRefresh {
		return nil, common.ErrorInvalidToken
	}

	sessionRepo := s.repos.Sessions(s.db)

	session, err := sessionRepo.FindByJTI(ctx, claims.ID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "session lookup failed", "operation", "refresh", "userAgent", userAgent, "error", err.Error())
		return nil, common.ErrorInternal
	}

	// Consume the session before classifying the outcome.
	if err := sessionRepo.DeleteByJTI(ctx, claims.ID); err != nil {
		s.logger.Error(ctx, "session delete failed", "operation", "refresh", "jti", claims.ID, "error", err.Error())
		return nil, common.ErrorInternal
	}

	if session == nil {
		return nil, common.ErrorSessionNotFound
	}
	if !session.Live(time.Now()) {
		return nil, common.ErrorSessionExpired
	}

	// Re-read the principal so the next pair carries fresh isAdmin/isActive
	// and a deleted or deactivated user cannot keep rotating.
	user, err := s.repos.Users(s.db).FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorSessionNotFound
		}
		s.logger.Error(ctx, "user lookup failed", "operation", "refresh", "userId", claims.UserID, "error", err.Error())
		return nil, common.ErrorInternal
	}
	if !user.IsActive {
		return nil, common.ErrorSessionNotFound
	}

	return s.getTokens(ctx, user, userAgent)
}

// Logout revokes the refresh session behind the given token. An undecodable
// or wrongly typed token is a no-op success: logging out of an already
// invalid session is not an error.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.codec.Parse(refreshToken)
	if err != nil || claims.TokenType != auth.TokenTypeRefresh {
		return nil
	}

	if err := s.repos.Sessions(s.db).DeleteByJTI(ctx, claims.ID); err != nil {
		s.logger.Error(ctx, "session delete failed", "operation", "logout", "jti", claims.ID, "error", err.Error())
		return common.ErrorInternal
	}
	return nil
}

// getTokens mints a TokenPair around one fresh jti and upserts the refresh
// session for (user, userAgent). The store-level upsert keeps at most one
// session per device without any application locking.
func (s *SessionService) getTokens(ctx context.Context, user *models.User, userAgent string) (*TokenPair, error) {
	jti := uuid.NewString()

	accessToken, err := s.codec.IssueAccess(user.ID, user.IsAdmin, user.IsActive, jti)
	if err != nil {
		s.logger.Error(ctx, "access token issue failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	refreshToken, err := s.codec.IssueRefresh(user.ID, user.IsAdmin, user.IsActive, jti)
	if err != nil {
		s.logger.Error(ctx, "refresh token issue failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	expiresAt := time.Now().Add(s.codec.RefreshTTL())
	if err := s.repos.Sessions(s.db).Upsert(ctx, user.ID, userAgent, jti, refreshToken, expiresAt); err != nil {
		s.logger.Error(ctx, "session upsert failed", "userId", user.ID, "userAgent", userAgent, "error", err.Error())
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
