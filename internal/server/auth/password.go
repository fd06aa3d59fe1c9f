package auth

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the 10-round work factor the stored hashes were
// produced with.
const bcryptCost = 10

// HashPassword hashes a plaintext password with bcrypt using a per-call
// random salt. Safe for concurrent use.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// dummyHash is a valid bcrypt hash of an unguessable constant. Sign-in
// compares against it when no user matches the identifier, so unknown-user
// and wrong-password failures burn comparable CPU time.
var dummyHash = func() string {
	h, err := HashPassword("mg-test dummy password 8f3a")
	if err != nil {
		panic(err)
	}
	return h
}()

// CheckDummyPassword performs a bcrypt comparison that always fails.
func CheckDummyPassword(password string) {
	_ = CheckPassword(password, dummyHash)
}

// ValidatePasswordStrength enforces complexity rules for new passwords:
// minimum 8 characters with at least one uppercase letter, one lowercase
// letter, one digit, and one special character.
func ValidatePasswordStrength(password string) error {
	var hasUpper, hasLower, hasDigit, hasSpecial bool

	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		case unicode.IsPunct(ch) || unicode.IsSymbol(ch):
			hasSpecial = true
		}
	}

	var failures []string

	if len(password) < 8 {
		failures = append(failures, "at least 8 characters")
	}
	if !hasUpper {
		failures = append(failures, "at least 1 uppercase letter")
	}
	if !hasLower {
		failures = append(failures, "at least 1 lowercase letter")
	}
	if !hasDigit {
		failures = append(failures, "at least 1 digit")
	}
	if !hasSpecial {
		failures = append(failures, "at least 1 special character")
	}

	if len(failures) > 0 {
		return fmt.Errorf("password must contain %s", strings.Join(failures, ", "))
	}

	return nil
}
