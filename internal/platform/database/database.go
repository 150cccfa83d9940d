// Copyright (c) 2026 Biblioteca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package database manages the process-wide catalog store handle.
//
// # Architecture
//
// This package is part of the Infrastructure layer. The catalog lives in an embedded
// SQL engine (sqlite via modernc.org/sqlite) or, optionally, in PostgreSQL through the
// pgx stdlib driver. Exactly one handle exists per process: [Open] creates it on first
// use and returns the same handle afterwards, and [Shared] exposes it to repositories
// with an explicit [ErrNotInitialized] failure instead of relying on first-use success.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	// pgx registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	// modernc registers the pure-Go "sqlite" driver.
	_ "modernc.org/sqlite"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Opinionated handle settings.
const (
	// busyTimeout lets a reader wait for the loader's write lock instead of failing.
	busyTimeout = 5 * time.Second
	// postgresMaxConns bounds the optional postgres pool; the workload is low concurrency.
	postgresMaxConns = 5
	// connMaxLifetime ensures postgres connections are periodically recycled.
	connMaxLifetime = 60 * time.Minute
	// connectTimeout is the maximum time allowed to establish the first connection.
	connectTimeout = 5 * time.Second
	// pingTimeout is the maximum duration for a health check ping.
	pingTimeout = 2 * time.Second
)

// ErrNotInitialized is returned by [Shared] before [Open] succeeded.
var ErrNotInitialized = errors.New("database: store handle is not initialized")

// Options selects the catalog engine.
type Options struct {
	// Driver is [DriverSQLite] or [DriverPostgres].
	Driver string
	// URL is a file path for sqlite or a postgres:// URL.
	URL string
}

// EnsureDir creates the parent directory of a sqlite file. It does nothing for
// postgres, in-memory databases and file: URIs.
func (o Options) EnsureDir() error {
	if o.Driver != DriverSQLite && o.Driver != "" {
		return nil
	}

	path, _, _ := strings.Cut(o.URL, "?")
	if path == "" || path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("database: create directory for %s: %w", path, err)
	}
	return nil
}

// DB is the catalog store handle together with its SQL dialect.
type DB struct {
	*sql.DB
	dialect Dialect
	options Options
}

// Dialect returns the SQL dialect of the underlying engine.
func (db *DB) Dialect() Dialect { return db.dialect }

// Options returns the options the handle was opened with.
func (db *DB) Options() Options { return db.options }

// Handle returns a [Handle] that always resolves to db.
func (db *DB) Handle() Handle {
	return func() (*DB, error) { return db, nil }
}

// Handle resolves the store connection for a single operation.
//
// Repositories hold a Handle rather than a *DB so that an uninitialized store surfaces
// as an error on the request that hit it.
type Handle func() (*DB, error)

// New opens and validates a catalog store handle. Most callers want [Open].
func New(ctx context.Context, options Options) (*DB, error) {
	var (
		driverName string
		dsn        string
		dialect    Dialect
	)

	switch options.Driver {
	case DriverSQLite, "":
		options.Driver = DriverSQLite
		driverName = "sqlite"
		dsn = sqliteDSN(options.URL)
		dialect = SQLite
	case DriverPostgres:
		driverName = "pgx"
		dsn = options.URL
		dialect = Postgres
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", options.Driver)
	}

	if strings.TrimSpace(options.URL) == "" {
		return nil, errors.New("database: URL is required")
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", options.Driver, err)
	}

	if options.Driver == DriverSQLite {
		// One embedded file, one connection: writes serialize and the favorites
		// read-modify-write never races a second pooled connection.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(postgresMaxConns)
		sqlDB.SetConnMaxLifetime(connMaxLifetime)
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	db := &DB{DB: sqlDB, dialect: dialect, options: options}
	if err := Ping(connectCtx, db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return db, nil
}

// Ping verifies that the store handle is healthy.
func Ping(ctx context.Context, db *DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("database: ping failed: %w", err)
	}

	return nil
}

// # Process-wide handle

var (
	sharedMu sync.Mutex
	shared   *DB
)

// Open returns the process-wide handle, creating it on the first call.
//
// Later calls return the existing handle and ignore options; the handle is never
// re-initialized mid-process.
func Open(ctx context.Context, options Options, logger *slog.Logger) (*DB, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if shared != nil {
		return shared, nil
	}

	db, err := New(ctx, options)
	if err != nil {
		return nil, err
	}

	shared = db
	logger.Info("catalog store connected",
		slog.String("driver", db.options.Driver),
		slog.String("dialect", db.dialect.Name()),
	)

	return shared, nil
}

// Shared returns the process-wide handle or [ErrNotInitialized].
func Shared() (*DB, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if shared == nil {
		return nil, ErrNotInitialized
	}
	return shared, nil
}

// CloseShared closes the process-wide handle. It is safe to call when none is open.
func CloseShared() error {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if shared == nil {
		return nil
	}

	err := shared.Close()
	shared = nil
	return err
}

// sqliteDSN appends the connection pragmas to a sqlite file path.
func sqliteDSN(path string) string {
	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)", path, separator, busyTimeout.Milliseconds())
}
