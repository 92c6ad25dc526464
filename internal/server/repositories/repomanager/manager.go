package repomanager

import (
	"context"
	"database/sql"

	"github.com/antonvlsk/verimail/internal/dbx"
	"github.com/antonvlsk/verimail/internal/server/repositories/accounts"
	"github.com/antonvlsk/verimail/internal/server/repositories/verificationtokens"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	VerificationTokens(db dbx.DBTX) verificationtokens.Repository
}
