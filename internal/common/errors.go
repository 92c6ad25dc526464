// Package common defines shared constants and sentinel errors used across
// the verimail server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal    = errors.New("internal error")
	ErrUnavailable = errors.New("storage unavailable")

	// Registration lifecycle errors.
	ErrDuplicateEmail    = errors.New("email already taken")
	ErrAlreadyRegistered = errors.New("email already registered and verified")
	ErrNotVerified       = errors.New("email not verified")

	// Verification token errors.
	ErrInvalidToken     = errors.New("invalid verification token")
	ErrTokenExpired     = errors.New("verification token expired")
	ErrTokenAlreadyUsed = errors.New("verification token already used")

	// Authentication errors.
	ErrUnknownAccount    = errors.New("unknown account")
	ErrBadCredential     = errors.New("bad credential")
	ErrCorruptCredential = errors.New("stored credential is not a valid hash")

	// Session token errors.
	ErrInvalidSession = errors.New("invalid session token")
	ErrSessionExpired = errors.New("session token expired")

	// Email dispatch errors.
	ErrDispatchFailed = errors.New("verification email dispatch failed")
)
