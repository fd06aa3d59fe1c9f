// Package common defines shared constants and sentinel errors used across
// the service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Sign-up conflicts. The repository maps database unique-constraint
	// violations onto these so the service never inspects driver errors.
	ErrorEmailExists = errors.New("user with this email already exists")
	ErrorPhoneExists = errors.New("user with this phone number already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Sign-in failure. Deliberately the same value for "no such user" and
	// "wrong password" so callers cannot enumerate accounts.
	ErrorInvalidCredentials = errors.New("invalid login or password")

	// Token lifecycle errors.
	ErrorInvalidToken    = errors.New("invalid token")
	ErrorSessionNotFound = errors.New("refresh session not found")
	ErrorSessionExpired  = errors.New("refresh session expired")

	// Guard errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Rate limiting.
	ErrorTooManyRequests = errors.New("too many requests")
)
