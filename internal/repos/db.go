package repos

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// OpenDB opens (creating if needed) the sqlite database at path
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("Error opening database (%s): %w", path, err)
	}
	// sqlite only supports a single writer
	db.SetMaxOpenConns(1)
	return db, nil
}
