package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/RTHeLL/mg-test/internal/common"
	"github.com/RTHeLL/mg-test/internal/dbx"
	"github.com/RTHeLL/mg-test/internal/logging"
	"github.com/RTHeLL/mg-test/internal/server/models"
	"github.com/RTHeLL/mg-test/internal/server/repositories/repomanager"
)

// UserService exposes the user-record operations the API needs beyond the
// session lifecycle.
type UserService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) *UserService {
	return &UserService{db: db, repos: repos, logger: logger}
}

// GetUser returns a user by id, or ErrorNotFound.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repos.Users(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		s.logger.Error(ctx, "user lookup failed", "operation", "getUser", "userId", id, "error", err.Error())
		return nil, common.ErrorInternal
	}
	return user, nil
}

// DeleteUser removes a user together with all of the user's refresh
// sessions, in one transaction, so no orphaned session can outlive its
// principal.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Sessions(tx).DeleteByUserID(ctx, id); err != nil {
			return err
		}
		return s.repos.Users(tx).Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		s.logger.Error(ctx, "user deletion failed", "operation", "deleteUser", "userId", id, "error", err.Error())
		return common.ErrorInternal
	}
	return nil
}
