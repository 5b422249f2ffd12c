package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

const mysqlUpsert = `INSERT INTO kv_slots (slot_key, value, updated_at) VALUES (?, ?, ?)
	ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)`

const mysqlSchema = `CREATE TABLE IF NOT EXISTS kv_slots (
	slot_key   VARCHAR(191) NOT NULL PRIMARY KEY,
	value      LONGTEXT NOT NULL,
	updated_at VARCHAR(40) NOT NULL
)`

// OpenMySQLStore connects to MySQL, creates the slot table when missing and
// returns a store for key.
// Example DSN: user:pass@tcp(host:3306)/dbname?parseTime=true
func OpenMySQLStore(ctx context.Context, dsn, key string) (*SQLStore, error) {
	if dsn == "" {
		return nil, errors.New("mysql: DSN is required")
	}
	database, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening mysql: %w", err)
	}
	database.SetMaxOpenConns(4)
	database.SetMaxIdleConns(2)
	database.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := database.PingContext(pingCtx); err != nil {
		database.Close()
		return nil, fmt.Errorf("pinging mysql: %w", err)
	}
	if _, err := database.ExecContext(ctx, mysqlSchema); err != nil {
		database.Close()
		return nil, fmt.Errorf("creating kv_slots: %w", err)
	}
	return newSQLStore(database, key, mysqlUpsert), nil
}
