// Package store is the relational persistence layer. Each entity gets a
// repository over a shared *sql.DB; lead and project reads take a
// policy.Scope and translate it to row filters, so no query can widen
// visibility past what the policy engine decided.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DB wraps a sql.DB with driver awareness for placeholder rebinding
type DB struct {
	*sql.DB
	driver string
}

// Open opens a database handle for the given driver and DSN and verifies
// connectivity.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == DriverSQLite {
		// Concurrent request handlers share this handle; sqlite writes are
		// serialized through a single connection.
		db.SetMaxOpenConns(1)
	}

	return &DB{DB: db, driver: driver}, nil
}

// Wrap adapts an existing sql.DB (tests, mocks) into a store DB
func Wrap(db *sql.DB, driver string) *DB {
	return &DB{DB: db, driver: driver}
}

// Rebind converts ?-style placeholders to the driver's native form.
// Queries in this package are written with ?; postgres needs $N.
func (db *DB) Rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// HealthCheck pings the database with a short deadline
func (db *DB) HealthCheck(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return db.PingContext(pingCtx)
}
