package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/scalehub/internal/dbx"
	"github.com/dmitrijs2005/scalehub/internal/server/repositories/devices"
	"github.com/dmitrijs2005/scalehub/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Devices(db dbx.DBTX) devices.Repository
}
