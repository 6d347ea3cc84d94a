package db

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// PoolOptions configures the sql.DB connection pool.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultPoolOptions returns pool settings suitable for a small SQLite deployment.
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 2 * time.Minute,
	}
}

// Open opens the SQLite database at path with foreign keys enforced and
// WAL journaling for concurrent readers. The connection is verified with
// a ping before being returned.
func Open(path string, opts PoolOptions) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(opts.MaxOpenConns)
	conn.SetMaxIdleConns(opts.MaxIdleConns)
	conn.SetConnMaxLifetime(opts.ConnMaxLifetime)
	conn.SetConnMaxIdleTime(opts.ConnMaxIdleTime)

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		conn.Close()
		return nil, err
	}

	if err := conn.PingContext(context.Background()); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}

// OpenInMemory opens an in-memory database with the same settings as Open.
func OpenInMemory() (*sql.DB, error) {
	return Open(":memory:", DefaultPoolOptions())
}
