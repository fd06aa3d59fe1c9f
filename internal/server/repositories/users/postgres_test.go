package users

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RTHeLL/mg-test/internal/common"
	"github.com/RTHeLL/mg-test/internal/server/models"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func userColumns() []string {
	return []string{"id", "email", "phone_number", "password", "first_name", "last_name",
		"is_active", "is_admin", "created_at", "updated_at"}
}

func TestCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("a@b.com", "+375291234567", "hash", "Ivan", "Ivanov").
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_active", "is_admin", "created_at", "updated_at"}).
			AddRow(int64(7), true, false, now, now))

	user, err := repo.Create(context.Background(), &models.User{
		Email: "a@b.com", PhoneNumber: "+375291234567", Password: "hash",
		FirstName: "Ivan", LastName: "Ivanov",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.True(t, user.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolations(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"duplicate email", "users_email_key", common.ErrorEmailExists},
		{"duplicate phone", "users_phone_number_key", common.ErrorPhoneExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)

			mock.ExpectQuery("INSERT INTO users").
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

			_, err := repo.Create(context.Background(), &models.User{
				Email: "a@b.com", PhoneNumber: "+375291234567", Password: "hash",
			})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFindByEmailOrPhone(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(int64(7), "a@b.com", "+375291234567", "hash", "Ivan", "Ivanov", true, false, now, now))

	user, err := repo.FindByEmailOrPhone(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "+375291234567", user.PhoneNumber)
}

func TestFindByEmailOrPhone_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("nobody@b.com").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := repo.FindByEmailOrPhone(context.Background(), "nobody@b.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := repo.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 99), common.ErrorNotFound)
}
