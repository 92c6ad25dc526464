// Package verificationtokens provides a PostgreSQL-backed repository for
// email verification tokens.
package verificationtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/antonvlsk/verimail/internal/common"
	"github.com/antonvlsk/verimail/internal/dbx"
	"github.com/antonvlsk/verimail/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, accountID, secret string, issuedAt, expiresAt time.Time) (*models.VerificationToken, error) {
	query := `
		INSERT INTO verification_tokens (account_id, secret, issued_at, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	token := &models.VerificationToken{
		AccountID: accountID,
		Secret:    secret,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}
	err := r.db.QueryRowContext(ctx, query, accountID, secret, issuedAt, expiresAt).Scan(&token.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return token, nil
}

func (r *PostgresRepository) ExpireLive(ctx context.Context, accountID string, now time.Time) error {
	query := `
		UPDATE verification_tokens
		SET expires_at = $2
		WHERE account_id = $1 AND redeemed_at IS NULL AND expires_at > $2
	`
	if _, err := r.db.ExecContext(ctx, query, accountID, now); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Redeem is the at-most-once consumption point. The WHERE clause makes the
// write conditional on the token still being live, so two concurrent calls
// with the same secret cannot both see a row come back.
func (r *PostgresRepository) Redeem(ctx context.Context, secret string, now time.Time) (string, error) {
	query := `
		UPDATE verification_tokens
		SET redeemed_at = $2
		WHERE secret = $1 AND redeemed_at IS NULL AND expires_at > $2
		RETURNING account_id
	`
	var accountID string
	err := r.db.QueryRowContext(ctx, query, secret, now).Scan(&accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return accountID, nil
}

func (r *PostgresRepository) FindBySecret(ctx context.Context, secret string) (*models.VerificationToken, error) {
	query := `
		SELECT id, account_id, secret, issued_at, expires_at, redeemed_at
		FROM verification_tokens
		WHERE secret = $1
	`
	token := &models.VerificationToken{}
	var redeemedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, secret).
		Scan(&token.ID, &token.AccountID, &token.Secret, &token.IssuedAt, &token.ExpiresAt, &redeemedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if redeemedAt.Valid {
		token.RedeemedAt = &redeemedAt.Time
	}
	return token, nil
}
