// Package accounts provides a PostgreSQL-backed repository for account
// records.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `
		SELECT id, email, credential_hash, verified, created_at
		FROM accounts
		WHERE email = $1
	`
	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&account.ID, &account.Email, &account.CredentialHash, &account.Verified, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `
		SELECT id, email, credential_hash, verified, created_at
		FROM accounts
		WHERE id = $1
	`
	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&account.ID, &account.Email, &account.CredentialHash, &account.Verified, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}

// CreateUnverified relies on the unique index on email: a concurrent insert
// for the same address lands on the ON CONFLICT branch, which only updates
// rows that are still unverified. When the conflicting account is already
// verified no row comes back and the call reports ErrDuplicateEmail.
func (r *PostgresRepository) CreateUnverified(ctx context.Context, email, credentialHash string) (*models.Account, error) {
	query := `
		INSERT INTO accounts (email, credential_hash)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE
			SET credential_hash = EXCLUDED.credential_hash
			WHERE accounts.verified = FALSE
		RETURNING id, email, credential_hash, verified, created_at
	`
	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, email, credentialHash).
		Scan(&account.ID, &account.Email, &account.CredentialHash, &account.Verified, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, accountID string) error {
	query := `
		UPDATE accounts
		SET verified = TRUE
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, accountID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SetCredential(ctx context.Context, accountID, credentialHash string) error {
	query := `
		UPDATE accounts
		SET credential_hash = $2
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, accountID, credentialHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
