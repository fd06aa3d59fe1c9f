// Package models holds the persistent data structures shared by
// repositories and services.
package models

import "time"

// User is a principal. Password holds the bcrypt hash, never plaintext.
type User struct {
	ID          int64
	Email       string
	PhoneNumber string
	Password    string
	FirstName   string
	LastName    string
	IsActive    bool
	IsAdmin     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
