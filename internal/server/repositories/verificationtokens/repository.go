// Package verificationtokens declares the repository contract for single-use
// email verification tokens.
package verificationtokens

import (
	"context"
	"time"

	"github.com/antonvlsk/verimail/internal/server/models"
)

// Repository defines storage operations for verification tokens. The redeem
// transition is a conditional write at the storage layer so that at most one
// of any number of concurrent claimants can consume a given secret.
type Repository interface {
	// Create inserts a new token for accountID with the given secret and
	// validity window and returns the stored row.
	Create(ctx context.Context, accountID, secret string, issuedAt, expiresAt time.Time) (*models.VerificationToken, error)

	// ExpireLive forces expires_at to now on every still-live token of the
	// account, so that at most one live token per account exists after a
	// subsequent Create. Expiring zero tokens is not an error.
	ExpireLive(ctx context.Context, accountID string, now time.Time) error

	// Redeem atomically sets redeemed_at on the token with the given secret,
	// provided it is unredeemed and unexpired, and returns the owning
	// account ID. If no live token matches it returns common.ErrNotFound;
	// FindBySecret distinguishes missing, expired, and already-redeemed.
	Redeem(ctx context.Context, secret string, now time.Time) (string, error)

	// FindBySecret returns the token with the given secret regardless of its
	// state, or common.ErrNotFound.
	FindBySecret(ctx context.Context, secret string) (*models.VerificationToken, error)
}
