package repomanager

import (
	"context"
	"database/sql"

	"github.com/RTHeLL/mg-test/internal/dbx"
	"github.com/RTHeLL/mg-test/internal/server/repositories/sessions"
	"github.com/RTHeLL/mg-test/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, letting services run
// the same repository code against *sql.DB or a transaction handle.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
