package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/RTHeLL/mg-test/internal/common"
	"github.com/RTHeLL/mg-test/internal/dbx"
	"github.com/RTHeLL/mg-test/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByJTI(ctx context.Context, jti string) (*models.RefreshSession, error) {
	query := `
		SELECT id, jti, token, expires_at, user_id, user_agent, created_at, updated_at
		FROM refresh_sessions
		WHERE jti = $1
	`

	return r.scanSession(r.db.QueryRowContext(ctx, query, jti))
}

func (r *PostgresRepository) FindByUserAndAgent(ctx context.Context, userID int64, userAgent string) (*models.RefreshSession, error) {
	query := `
		SELECT id, jti, token, expires_at, user_id, user_agent, created_at, updated_at
		FROM refresh_sessions
		WHERE user_id = $1 AND user_agent = $2
	`

	return r.scanSession(r.db.QueryRowContext(ctx, query, userID, userAgent))
}

// Upsert relies on the unique (user_id, user_agent) constraint so that a
// repeated sign-in from the same device replaces the prior session instead
// of accumulating rows. Concurrent sign-ins race safely: last writer wins.
func (r *PostgresRepository) Upsert(ctx context.Context, userID int64, userAgent, jti, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_sessions (jti, token, expires_at, user_id, user_agent)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, user_agent)
		DO UPDATE SET jti = EXCLUDED.jti, token = EXCLUDED.token,
		              expires_at = EXCLUDED.expires_at, updated_at = now()
	`

	if _, err := r.db.ExecContext(ctx, query, jti, token, expiresAt, userID, userAgent); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByJTI(ctx context.Context, jti string) error {
	query := `
		DELETE FROM refresh_sessions
		WHERE jti = $1
	`

	if _, err := r.db.ExecContext(ctx, query, jti); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	query := `
		DELETE FROM refresh_sessions
		WHERE user_id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) scanSession(row *sql.Row) (*models.RefreshSession, error) {
	s := &models.RefreshSession{}
	err := row.Scan(&s.ID, &s.JTI, &s.Token, &s.ExpiresAt, &s.UserID, &s.UserAgent, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}
