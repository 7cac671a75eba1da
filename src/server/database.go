package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // mysql driver
	_ "modernc.org/sqlite"             // sqlite driver
)

// SQLStore keeps the offset in a single row of the offsets table.
type SQLStore struct {
	*sql.DB

	upsert string
}

var upsertStatements = map[string]string{
	DriverMySQL: "INSERT INTO offsets (id, next_update) VALUES (1, ?) " +
		"ON DUPLICATE KEY UPDATE next_update = VALUES(next_update);",
	DriverSQLite: "INSERT INTO offsets (id, next_update) VALUES (1, ?) " +
		"ON CONFLICT(id) DO UPDATE SET next_update = excluded.next_update;",
}

// NewSQLStore opens dataSourceName with driver ("mysql" or "sqlite") and
// creates the offsets table if needed.
func NewSQLStore(driver, dataSourceName string) (*SQLStore, error) {
	upsert, ok := upsertStatements[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported offset driver %q", driver)
	}

	db, err := sql.Open(driver, dataSourceName)
	if err != nil {
		return nil, err
	}

	db.SetConnMaxLifetime(4 * time.Minute)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// Create table to save the polling cursor
	_, err = db.Exec("CREATE TABLE IF NOT EXISTS offsets (id INT PRIMARY KEY, next_update BIGINT NOT NULL);")
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SQLStore{DB: db, upsert: upsert}, nil
}

// Load returns the stored offset, or 0 when none was saved yet.
func (db *SQLStore) Load(ctx context.Context) (int, error) {
	var offset int

	err := db.QueryRowContext(ctx, "SELECT next_update FROM offsets WHERE id = 1;").Scan(&offset)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("load offset: %w", err)
	}

	return offset, nil
}

// Save stores offset, replacing the previous value.
func (db *SQLStore) Save(ctx context.Context, offset int) error {
	if _, err := db.ExecContext(ctx, db.upsert, offset); err != nil {
		return fmt.Errorf("save offset: %w", err)
	}

	return nil
}
