// Package managers wires the application to its external collaborators:
// the database pool, the redis stores, the mailer and the JWT keys.
package managers

import (
	log "github.com/sirupsen/logrus"

	"bookstore-server/internal/interfaces"
)

// DatabaseMgr provides access to the database connection pool.
type DatabaseMgr interface {
	GetPool() interfaces.PgxPoolIface
}

// DatabaseManager is the production implementation of DatabaseMgr.
type DatabaseManager struct {
	Pool interfaces.PgxPoolIface
}

// GetPool returns the database connection pool.
func (dbMgr *DatabaseManager) GetPool() interfaces.PgxPoolIface {
	return dbMgr.Pool
}

// NewDatabaseManager creates a DatabaseManager around the provided pool.
func NewDatabaseManager(pool interfaces.PgxPoolIface) DatabaseMgr {
	log.Info("Initializing database manager")
	return &DatabaseManager{Pool: pool}
}
