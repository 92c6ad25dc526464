// Package mail defines the outbound email collaborator used by the
// registration flow, plus a Resend-backed implementation.
package mail

import "context"

// Dispatcher sends a verification link to an address. Implementations must
// be safe for concurrent use.
type Dispatcher interface {
	SendVerification(ctx context.Context, toEmail, verifyURL string) error
}
