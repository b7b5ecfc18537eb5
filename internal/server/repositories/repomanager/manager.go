package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tickethub/internal/dbx"
	"github.com/dmitrijs2005/tickethub/internal/server/repositories/events"
	"github.com/dmitrijs2005/tickethub/internal/server/repositories/passwordresets"
	"github.com/dmitrijs2005/tickethub/internal/server/repositories/users"
)

// RepositoryManager vends relational repositories bound to a DBTX, so a
// service can run several repositories inside one transaction. The document
// store is not part of the manager: it has no transactions to share.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Events(db dbx.DBTX) events.Repository
	PasswordResets(db dbx.DBTX) passwordresets.Repository
}
