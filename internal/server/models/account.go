// Package models defines the server-side persistence entities.
package models

import "time"

// Account is a registered identity keyed by email.
//
// Email is stored lowercased and is unique across accounts. CredentialHash
// holds the bcrypt encoding of the password; the plaintext is never stored.
// Verified starts false and flips to true exactly once, when a verification
// token for the account is redeemed.
type Account struct {
	ID             string
	Email          string
	CredentialHash string
	Verified       bool
	CreatedAt      time.Time
}
