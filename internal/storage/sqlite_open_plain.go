//go:build !sqlcipher
// +build !sqlcipher

package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

func openPlainSQLite(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	return db, nil
}

func openSecureSQLite(path string, key string) (*sql.DB, error) {
	return nil, fmt.Errorf(
		"secure mode requires a sqlcipher-enabled build; rebuild with '-tags sqlcipher'",
	)
}

func secureSQLiteSupported() bool {
	return false
}
