// Package logging defines the structured logger the server components write
// through, so the concrete backend stays swappable.
package logging

import "context"

// Logger is a leveled, context-aware structured logger. The variadic args
// are alternating key-value pairs:
//
//	log.Info(ctx, "login", "account_id", id)
type Logger interface {
	// Debug logs fine-grained diagnostic detail.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs normal operational events.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that attaches the given key-value pairs
	// to every record.
	With(args ...any) Logger
}
