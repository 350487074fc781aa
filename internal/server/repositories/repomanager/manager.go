package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/glucosync/internal/dbx"
	"github.com/dmitrijs2005/glucosync/internal/server/repositories/readings"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Readings(db dbx.DBTX) readings.Repository
}
