package db

import (
	"database/sql"

	_ "github.com/lib/pq"
)

// CreateTables bootstraps the relational side. Events and locations live
// in Mongo; Postgres only carries accounts.
func CreateTables(db *sql.DB) error {
	createUsersTable := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL
	);`
	_, err := db.Exec(createUsersTable)
	return err
}
