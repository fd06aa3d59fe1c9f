// Package sessions provides the persistence contract for refresh sessions:
// the server-side records backing issued refresh tokens, one per
// (user, device) pair.
package sessions

import (
	"context"
	"time"

	"github.com/RTHeLL/mg-test/internal/server/models"
)

// Repository defines storage operations for refresh sessions. The
// single-row-per-device invariant is enforced here, by Upsert, not by
// application-level locking.
type Repository interface {
	// FindByJTI returns the session identified by jti, or ErrorNotFound.
	FindByJTI(ctx context.Context, jti string) (*models.RefreshSession, error)

	// FindByUserAndAgent returns the session for a (user, device) pair,
	// or ErrorNotFound.
	FindByUserAndAgent(ctx context.Context, userID int64, userAgent string) (*models.RefreshSession, error)

	// Upsert inserts a session for (userID, userAgent) or, when one already
	// exists for that pair, replaces its jti, token, and expiry in place.
	Upsert(ctx context.Context, userID int64, userAgent, jti, token string, expiresAt time.Time) error

	// DeleteByJTI removes the session identified by jti. Deleting an absent
	// session is not an error.
	DeleteByJTI(ctx context.Context, jti string) error

	// DeleteByUserID removes all of a user's sessions (every device).
	DeleteByUserID(ctx context.Context, userID int64) error
}
