// Package db wraps the SQL connection handle shared by the stores.
package db

import "database/sql"

type DB struct {
	*sql.DB
}
