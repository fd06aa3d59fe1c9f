package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/RTHeLL/mg-test/internal/common"
	"github.com/RTHeLL/mg-test/internal/dbx"
	"github.com/RTHeLL/mg-test/internal/server/models"
)

// Unique constraint names from the users migration.
const (
	emailConstraint = "users_email_key"
	phoneConstraint = "users_phone_number_key"
)

const pgUniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (email, phone_number, password, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, is_admin, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PhoneNumber, user.Password, user.FirstName, user.LastName).
		Scan(&user.ID, &user.IsActive, &user.IsAdmin, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			switch pgErr.ConstraintName {
			case emailConstraint:
				return nil, common.ErrorEmailExists
			case phoneConstraint:
				return nil, common.ErrorPhoneExists
			}
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) FindByEmailOrPhone(ctx context.Context, emailOrPhone string) (*models.User, error) {
	query := `
		SELECT id, email, phone_number, password, first_name, last_name, is_active, is_admin, created_at, updated_at
		FROM users
		WHERE email = $1 OR phone_number = $1
	`

	return r.scanUser(r.db.QueryRowContext(ctx, query, emailOrPhone))
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, email, phone_number, password, first_name, last_name, is_active, is_admin, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM users
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.PhoneNumber, &user.Password,
		&user.FirstName, &user.LastName, &user.IsActive, &user.IsAdmin,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}
