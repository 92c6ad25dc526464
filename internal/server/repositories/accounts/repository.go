// Package accounts declares the repository contract for account records.
package accounts

import (
	"context"

	"github.com/antonvlsk/verimail/internal/server/models"
)

// Repository defines storage operations for accounts. Email uniqueness and
// the unverified-overwrite rule are enforced by the storage layer, not by
// read-then-write in callers.
type Repository interface {
	// GetByEmail returns the account for the given (already normalized)
	// email, or common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)

	// GetByID returns the account with the given ID, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Account, error)

	// CreateUnverified inserts a new unverified account, or overwrites the
	// credential of an existing account with the same email as long as that
	// account is still unverified. If the email belongs to a verified
	// account it returns common.ErrDuplicateEmail.
	CreateUnverified(ctx context.Context, email, credentialHash string) (*models.Account, error)

	// MarkVerified sets verified = TRUE on the account. The transition is
	// monotonic; marking an already-verified account is a no-op.
	MarkVerified(ctx context.Context, accountID string) error

	// SetCredential replaces the stored credential hash.
	SetCredential(ctx context.Context, accountID, credentialHash string) error
}
