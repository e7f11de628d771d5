package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/poshtyar/internal/dbx"
	"github.com/dmitrijs2005/poshtyar/internal/server/repositories/documents"
	"github.com/dmitrijs2005/poshtyar/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX so the same service
// code runs against *sql.DB or inside a dbx.WithTx transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Documents(db dbx.DBTX) documents.Repository
}
