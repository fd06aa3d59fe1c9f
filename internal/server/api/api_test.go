package api

// Test fixtures shared by the handler and middleware tests: in-memory
// repositories behind the real services, so requests exercise the full
// transport -> service -> store path without Postgres.

import (
	"context"
	"database/sql"
	"io"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/RTHeLL/mg-test/internal/common"
	"github.com/RTHeLL/mg-test/internal/dbx"
	"github.com/RTHeLL/mg-test/internal/logging"
	"github.com/RTHeLL/mg-test/internal/server/auth"
	"github.com/RTHeLL/mg-test/internal/server/config"
	"github.com/RTHeLL/mg-test/internal/server/models"
	"github.com/RTHeLL/mg-test/internal/server/ratelimit"
	"github.com/RTHeLL/mg-test/internal/server/repositories/sessions"
	"github.com/RTHeLL/mg-test/internal/server/repositories/users"
	"github.com/RTHeLL/mg-test/internal/server/services"
)

type memUsersRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{nextID: 1, byID: map[int64]*models.User{}}
}

func (f *memUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorEmailExists
		}
		if existing.PhoneNumber == u.PhoneNumber {
			return nil, common.ErrorPhoneExists
		}
	}
	u.ID = f.nextID
	f.nextID++
	u.IsActive = true
	f.byID[u.ID] = u
	return u, nil
}

func (f *memUsersRepo) FindByEmailOrPhone(ctx context.Context, emailOrPhone string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == emailOrPhone || u.PhoneNumber == emailOrPhone {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *memUsersRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *memUsersRepo) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

type memSessionsRepo struct {
	mu   sync.Mutex
	rows map[string]*models.RefreshSession
}

func newMemSessionsRepo() *memSessionsRepo {
	return &memSessionsRepo{rows: map[string]*models.RefreshSession{}}
}

func (f *memSessionsRepo) FindByJTI(ctx context.Context, jti string) (*models.RefreshSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.rows[jti]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, common.ErrorNotFound
}

func (f *memSessionsRepo) FindByUserAndAgent(ctx context.Context, userID int64, userAgent string) (*models.RefreshSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.rows {
		if s.UserID == userID && s.UserAgent == userAgent {
			copied := *s
			return &copied, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *memSessionsRepo) Upsert(ctx context.Context, userID int64, userAgent, jti, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for existing, s := range f.rows {
		if s.UserID == userID && s.UserAgent == userAgent {
			delete(f.rows, existing)
		}
	}
	f.rows[jti] = &models.RefreshSession{
		JTI: jti, Token: token, ExpiresAt: expiresAt, UserID: userID, UserAgent: userAgent,
	}
	return nil
}

func (f *memSessionsRepo) DeleteByJTI(ctx context.Context, jti string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, jti)
	return nil
}

func (f *memSessionsRepo) DeleteByUserID(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for jti, s := range f.rows {
		if s.UserID == userID {
			delete(f.rows, jti)
		}
	}
	return nil
}

type memRepoManager struct {
	u *memUsersRepo
	r *memSessionsRepo
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(db dbx.DBTX) users.Repository          { return m.u }
func (m *memRepoManager) Sessions(db dbx.DBTX) sessions.Repository    { return m.r }

type fixture struct {
	server *Server
	users  *memUsersRepo
	repo   *memSessionsRepo
	codec  *auth.Codec
	mock   sqlmock.Sqlmock
}

func newFixture(t *testing.T, opts ...func(*fixture)) *fixture {
	t.Helper()

	// The repositories are in-memory; the sql handle only backs the
	// transaction boundaries opened by UserService.DeleteUser.
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		users: newMemUsersRepo(),
		repo:  newMemSessionsRepo(),
		codec: auth.NewCodec([]byte("test-secret"), 5*time.Minute, 30*24*time.Hour),
		mock:  mock,
	}

	logger := logging.NewJSONLogger(io.Discard)
	repos := &memRepoManager{u: f.users, r: f.repo}
	sessionService := services.NewSessionService(db, repos, f.codec, logger)
	userService := services.NewUserService(db, repos, logger)

	var limiter ratelimit.Limiter = ratelimit.NoopLimiter{}
	f.server = NewServer("127.0.0.1:0", config.EnvDevelopment, sessionService, userService, f.codec, limiter, logger)

	for _, opt := range opts {
		opt(f)
	}
	return f
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(context.Context, string) (bool, error) { return false, nil }

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (f *fixture) addUser(t *testing.T, email, phone, password string, isAdmin bool) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user, err := f.users.Create(context.Background(), &models.User{
		Email: email, PhoneNumber: phone, Password: hash,
		FirstName: "Ivan", LastName: "Ivanov",
	})
	require.NoError(t, err)
	user.IsAdmin = isAdmin
	return user
}
