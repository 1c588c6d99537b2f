package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/staffkeeper/internal/dbx"
	"github.com/dmitrijs2005/staffkeeper/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/staffkeeper/internal/server/repositories/records"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Credentials(db dbx.DBTX) credentials.Repository
	Records(db dbx.DBTX) records.Repository
}
