// Package users declares the repository contract for the user store.
package users

import (
	"context"

	"github.com/RTHeLL/mg-test/internal/server/models"
)

// Repository defines operations on user records. Implementations map
// storage-level conditions to common sentinels: unique-constraint conflicts
// to ErrorEmailExists/ErrorPhoneExists and missing rows to ErrorNotFound.
type Repository interface {
	// Create inserts a new user and returns it with the assigned id.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// FindByEmailOrPhone looks a user up by either identifier, in one query.
	FindByEmailOrPhone(ctx context.Context, emailOrPhone string) (*models.User, error)

	// FindByID looks a user up by primary key.
	FindByID(ctx context.Context, id int64) (*models.User, error)

	// Delete removes a user by id. Missing rows yield ErrorNotFound.
	Delete(ctx context.Context, id int64) error
}
