package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

// Connection defaults applied unless the DSN sets them. WAL lets the async
// audit writer and request handlers share the file; the busy timeout makes a
// writer wait for a lock instead of failing with SQLITE_BUSY.
var defaultParams = map[string]string{
	"_busy_timeout": "5000",
	"_journal_mode": "WAL",
	"_foreign_keys": "on",
}

// buildDSN adds the connection defaults to dataSourceName
func buildDSN(dataSourceName string) string {
	if dataSourceName == ":memory:" || strings.Contains(dataSourceName, "mode=memory") {
		return dataSourceName
	}

	base, rawQuery, _ := strings.Cut(dataSourceName, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return dataSourceName
	}
	for key, value := range defaultParams {
		if query.Get(key) == "" {
			query.Set(key, value)
		}
	}

	if !strings.HasPrefix(base, "file:") {
		base = "file:" + base
	}
	return base + "?" + query.Encode()
}

// OpenDB initializes the SQLite database connection
func OpenDB(dataSourceName string) error {
	var err error
	db, err = sql.Open("sqlite3", buildDSN(dataSourceName))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err = db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// InitializeDatabase opens the database connection and runs migrations
func InitializeDatabase(dataSourceName string) error {
	if err := OpenDB(dataSourceName); err != nil {
		return err
	}

	// Run migrations
	if err := RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("database initialized", "dsn", dataSourceName)
	return nil
}

// GetDB returns the database connection
func GetDB() *sql.DB {
	return db
}

// CloseDB closes the database connection
func CloseDB() error {
	if db != nil {
		return db.Close()
	}
	return nil
}
