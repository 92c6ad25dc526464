// Package password implements one-way hashing and verification of account
// passwords using bcrypt. The stored value embeds its own salt and cost, so
// the same plaintext hashes to a different string on every call.
package password

import (
	"errors"
	"fmt"

	"github.com/antonvlsk/verimail/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords with a fixed bcrypt cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given bcrypt cost. A cost of 0 selects
// bcrypt.DefaultCost; tests pass bcrypt.MinCost to keep hashing fast.
func NewHasher(cost int) *Hasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt encoding of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(b), nil
}

// Verify checks plaintext against a stored credential hash.
//
// A plain mismatch yields common.ErrBadCredential. Any other comparison
// failure means the stored value is not a parseable bcrypt hash and yields
// common.ErrCorruptCredential, so callers can tell wrong passwords apart
// from unreadable records.
func (h *Hasher) Verify(plaintext, credentialHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(credentialHash), []byte(plaintext))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return common.ErrBadCredential
	}
	return fmt.Errorf("%w: %v", common.ErrCorruptCredential, err)
}
