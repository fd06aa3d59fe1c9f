package models

import "time"

// RefreshSession is the persisted backing record of a live refresh token,
// one row per (user, device) pair. JTI is the session identity embedded in
// both tokens of a pair; Token keeps the serialized refresh token for audit.
type RefreshSession struct {
	ID        int64
	JTI       string
	Token     string
	ExpiresAt time.Time
	UserID    int64
	UserAgent string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Live reports whether the session can still be exchanged at instant now.
// A session whose expiry equals now is already dead (strict comparison).
func (s *RefreshSession) Live(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}
