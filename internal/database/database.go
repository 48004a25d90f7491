// Package database provides SQLite storage for parsed access log records
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"access-log-analyzer/internal/models"
)

// DB interface defines database operations for easier testing and extensibility
type DB interface {
	Close() error
	Query(query string, args ...interface{}) (*sql.Rows, error)
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// sqliteDB implements the DB interface for SQLite
type sqliteDB struct {
	*sql.DB
}

// Initialize opens (creating if needed) the SQLite database at dbPath and
// sets up the requests table
func Initialize(dbPath string) (DB, error) {
	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &sqliteDB{sqlDB}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables sets up the schema. The constraints mirror the record
// invariants: a stored record always has a numeric status code and a
// non-negative byte count. Indexes cover the columns the example queries
// filter and group on.
func createTables(db DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		client TEXT NOT NULL,
		date TEXT NOT NULL,
		method TEXT NOT NULL,
		path TEXT NOT NULL,
		protocol TEXT NOT NULL,
		status_code INTEGER NOT NULL CHECK (status_code BETWEEN 100 AND 999),
		bytes_sent INTEGER NOT NULL CHECK (bytes_sent >= 0)
	);

	CREATE INDEX IF NOT EXISTS idx_requests_client ON requests(client);
	CREATE INDEX IF NOT EXISTS idx_requests_date ON requests(date);
	CREATE INDEX IF NOT EXISTS idx_requests_method ON requests(method);
	CREATE INDEX IF NOT EXISTS idx_requests_path ON requests(path);
	CREATE INDEX IF NOT EXISTS idx_requests_status_code ON requests(status_code);
	CREATE INDEX IF NOT EXISTS idx_requests_date_status ON requests(date, status_code);
	`

	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// InsertRecords bulk inserts parsed records. Unless appendMode is set,
// existing rows are cleared first so a reload replaces the previous
// import.
func InsertRecords(db DB, records []models.LogRecord, appendMode bool) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	if !appendMode {
		if _, err := db.Exec("DELETE FROM requests"); err != nil {
			return 0, fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	insertSQL := `
	INSERT INTO requests (client, date, method, path, protocol, status_code, bytes_sent)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var insertedCount int64
	for _, r := range records {
		_, err := db.Exec(insertSQL,
			r.Client, r.Date, r.Method, r.Path, r.Protocol, r.StatusCode, r.BytesSent)
		if err != nil {
			return insertedCount, fmt.Errorf("failed to insert record: %w", err)
		}
		insertedCount++
	}

	return insertedCount, nil
}

// ExecuteQuery executes a SQL query and returns results as a slice of maps.
// The generic shape keeps the query command free of predefined result
// structs.
func ExecuteQuery(db DB, query string) ([]map[string]interface{}, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var results []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]interface{})
		for i, column := range columns {
			val := values[i]
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			row[column] = val
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	return results, nil
}
