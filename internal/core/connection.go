// File: internal/core/connection.go
package core

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Pin takes one connection out of db's pool and holds it until Release.
func Pin(ctx context.Context, db *sqlx.DB) (*sqlx.Conn, error) {
	conn, err := db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return conn, nil
}

// Release returns the pinned connection and closes the pool behind it. Both
// are closed even if the first close fails.
func Release(conn *sqlx.Conn, db *sqlx.DB) error {
	var errConn error
	if conn != nil {
		errConn = conn.Close()
	}
	errDB := db.Close()
	if errConn != nil {
		return fmt.Errorf("close connection: %w", errConn)
	}
	if errDB != nil {
		return fmt.Errorf("close database: %w", errDB)
	}
	return nil
}
