package models

import "time"

// VerificationToken is a single-use, time-bounded secret proving control of
// an email address.
//
// A token is redeemable while RedeemedAt is nil and ExpiresAt is in the
// future. RedeemedAt is set at most once; redeemed and expired tokens are
// kept as history, never deleted.
type VerificationToken struct {
	ID         string
	AccountID  string
	Secret     string
	IssuedAt   time.Time
	ExpiresAt  time.Time
	RedeemedAt *time.Time
}

// Redeemable reports whether the token can still be consumed at the given
// instant.
func (t *VerificationToken) Redeemable(now time.Time) bool {
	return t.RedeemedAt == nil && now.Before(t.ExpiresAt)
}
