// Package services contains server-side business logic. This file implements
// AccountService, which drives the account lifecycle: requesting email
// verification, redeeming verification tokens, finalizing registration, and
// authenticating logins into session tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/antonvlsk/verimail/internal/common"
	"github.com/antonvlsk/verimail/internal/dbx"
	"github.com/antonvlsk/verimail/internal/logging"
	"github.com/antonvlsk/verimail/internal/server/auth"
	"github.com/antonvlsk/verimail/internal/server/config"
	"github.com/antonvlsk/verimail/internal/server/mail"
	"github.com/antonvlsk/verimail/internal/server/models"
	"github.com/antonvlsk/verimail/internal/server/password"
	"github.com/antonvlsk/verimail/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// tokenSecretBytes is the entropy of a verification token secret. 32 bytes
// (256 bits) keeps collision probability negligible across all live tokens.
const tokenSecretBytes = 32

// AccountService provides the account lifecycle operations:
//   - RequestVerification: create/reuse an unverified account and email a link
//   - RedeemToken: consume a verification token and flip the account to verified
//   - CompleteRegistration: store the real password of a verified account
//   - Authenticate: check credentials and mint a session token
type AccountService struct {
	db                      *sql.DB
	repomanager             repomanager.RepositoryManager
	hasher                  *password.Hasher
	dispatcher              mail.Dispatcher
	logger                  logging.Logger
	jwtSecret               []byte
	sessionValidityDuration time.Duration
	verificationTokenTTL    time.Duration
	baseURL                 string

	// now is a seam for tests; defaults to time.Now.
	now func() time.Time

	// decoyHash is verified against when no account matches, to keep the
	// unknown-account path close in timing to a real password check.
	decoyHash string
}

// NewAccountService constructs an AccountService using repositories, the
// hasher and mailer collaborators, and server config.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, h *password.Hasher, d mail.Dispatcher, l logging.Logger, cfg *config.Config) (*AccountService, error) {
	decoy, err := h.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("preparing decoy hash: %w", err)
	}
	return &AccountService{
		db:                      db,
		repomanager:             m,
		hasher:                  h,
		dispatcher:              d,
		logger:                  l.With("module", "account_service"),
		jwtSecret:               []byte(cfg.SecretKey),
		sessionValidityDuration: cfg.SessionValidityDuration,
		verificationTokenTTL:    cfg.VerificationTokenTTL,
		baseURL:                 cfg.BaseURL,
		now:                     time.Now,
		decoyHash:               decoy,
	}, nil
}

// RequestVerification creates (or reuses, while unverified) the account for
// email, issues a fresh verification token invalidating any previous live
// one, and emails the verification link.
//
// The account and token are committed before the email is sent; a dispatch
// failure surfaces as ErrDispatchFailed but does not roll them back, so
// retrying the request is the recovery path.
func (s *AccountService) RequestVerification(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	secret, err := common.MakeRandHexString(tokenSecretBytes)
	if err != nil {
		return common.ErrInternal
	}

	// The account is parked behind a placeholder credential until
	// CompleteRegistration stores the real one.
	placeholder, err := s.hasher.Hash(uuid.NewString())
	if err != nil {
		return common.ErrInternal
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		account, err := s.repomanager.Accounts(tx).CreateUnverified(ctx, email, placeholder)
		if err != nil {
			return err
		}

		now := s.now()
		tokens := s.repomanager.VerificationTokens(tx)
		if err := tokens.ExpireLive(ctx, account.ID, now); err != nil {
			return err
		}
		_, err = tokens.Create(ctx, account.ID, secret, now, now.Add(s.verificationTokenTTL))
		return err
	}); err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return common.ErrAlreadyRegistered
		}
		s.logger.Error(ctx, "issuing verification token failed", "error", err.Error())
		return common.ErrUnavailable
	}

	link := s.baseURL + "/api/verify-email?token=" + secret
	if err := s.dispatcher.SendVerification(ctx, email, link); err != nil {
		s.logger.Error(ctx, "verification email dispatch failed", "email", email, "error", err.Error())
		return common.ErrDispatchFailed
	}

	s.logger.Info(ctx, "verification requested", "email", email)
	return nil
}

// RedeemToken consumes the token with the given secret and marks its account
// verified. Consumption and the verified flip happen in one transaction, so
// no observer can see a consumed token with a still-unverified account.
//
// Failures: ErrInvalidToken (no such secret), ErrTokenExpired,
// ErrTokenAlreadyUsed.
func (s *AccountService) RedeemToken(ctx context.Context, secret string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		tokens := s.repomanager.VerificationTokens(tx)

		accountID, err := tokens.Redeem(ctx, secret, s.now())
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return s.classifyDeadToken(ctx, tokens.FindBySecret, secret)
			}
			return err
		}

		return s.repomanager.Accounts(tx).MarkVerified(ctx, accountID)
	})
	if err == nil {
		s.logger.Info(ctx, "verification token redeemed")
		return nil
	}
	if errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrTokenExpired) || errors.Is(err, common.ErrTokenAlreadyUsed) {
		return err
	}
	s.logger.Error(ctx, "token redemption failed", "error", err.Error())
	return common.ErrUnavailable
}

// classifyDeadToken turns a failed conditional redeem into the precise
// domain error by inspecting the token row, if any.
func (s *AccountService) classifyDeadToken(ctx context.Context, find func(context.Context, string) (*models.VerificationToken, error), secret string) error {
	token, err := find(ctx, secret)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrInvalidToken
		}
		return err
	}
	if token.RedeemedAt != nil {
		return common.ErrTokenAlreadyUsed
	}
	return common.ErrTokenExpired
}

// CompleteRegistration stores the real password for a verified account,
// replacing the placeholder credential. It fails with ErrNotVerified unless
// the account exists and is verified. Calling it again on a verified account
// simply re-hashes and overwrites the credential.
func (s *AccountService) CompleteRegistration(ctx context.Context, email, plaintext string) error {
	email = NormalizeEmail(email)
	repo := s.repomanager.Accounts(s.db)

	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotVerified
		}
		s.logger.Error(ctx, "account lookup failed", "error", err.Error())
		return common.ErrUnavailable
	}
	if !account.Verified {
		return common.ErrNotVerified
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return common.ErrInternal
	}
	if err := repo.SetCredential(ctx, account.ID, hash); err != nil {
		s.logger.Error(ctx, "storing credential failed", "error", err.Error())
		return common.ErrUnavailable
	}

	s.logger.Info(ctx, "registration completed", "email", email)
	return nil
}

// Authenticate checks email+password against a verified account and returns
// a signed session token.
//
// Failures: ErrUnknownAccount, ErrNotVerified (verified status gates login
// even when the password matches), ErrBadCredential, ErrCorruptCredential.
// The HTTP layer collapses these into one uniform response; the distinct
// kinds exist for logging.
func (s *AccountService) Authenticate(ctx context.Context, email, plaintext string) (string, error) {
	email = NormalizeEmail(email)

	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Burn a comparison anyway so this path costs roughly the
			// same as a real check.
			_ = s.hasher.Verify(plaintext, s.decoyHash)
			return "", common.ErrUnknownAccount
		}
		s.logger.Error(ctx, "account lookup failed", "error", err.Error())
		return "", common.ErrUnavailable
	}

	verifyErr := s.hasher.Verify(plaintext, account.CredentialHash)

	if !account.Verified {
		return "", common.ErrNotVerified
	}
	if verifyErr != nil {
		if errors.Is(verifyErr, common.ErrCorruptCredential) {
			s.logger.Error(ctx, "stored credential is unreadable", "account_id", account.ID)
			return "", common.ErrCorruptCredential
		}
		return "", common.ErrBadCredential
	}

	token, err := auth.GenerateToken(account.ID, s.jwtSecret, s.sessionValidityDuration)
	if err != nil {
		return "", common.ErrInternal
	}

	s.logger.Info(ctx, "login", "account_id", account.ID)
	return token, nil
}

// ValidateSession checks a bearer session token and returns the account ID
// it was issued for.
func (s *AccountService) ValidateSession(token string) (string, error) {
	return auth.GetAccountIDFromToken(token, s.jwtSecret)
}

// NormalizeEmail lowercases and trims an address so the unique key in
// storage is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetAccount returns the account with the given ID.
func (s *AccountService) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnknownAccount
		}
		return nil, common.ErrUnavailable
	}
	return account, nil
}
