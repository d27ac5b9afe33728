// Package pg opens Postgres databases through lib/pq and helps
// with queries against them.
package pg

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/vardthomas/neo-vm/errors"
)

// Driver names registered with database/sql.
const (
	DriverName       = "postgres"
	LoggedDriverName = "postgres-logged"
)

func init() {
	sql.Register(LoggedDriverName, LogDriver(&pq.Driver{}))
}

// DB holds methods common to the DB, Tx, and Stmt types
// in package sql.
type DB interface {
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
}

// Open opens the Postgres database at url and checks that it can be
// reached. If logQueries is set, every statement sent to the
// database is logged first.
func Open(ctx context.Context, url string, logQueries bool) (*sql.DB, error) {
	driver := DriverName
	if logQueries {
		driver = LoggedDriverName
	}
	db, err := sql.Open(driver, url)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping")
	}
	return db, nil
}

// IsUniqueViolation reports whether err is a Postgres unique
// constraint violation.
func IsUniqueViolation(err error) bool {
	pqErr, ok := errors.Root(err).(*pq.Error)
	return ok && pqErr.Code.Name() == "unique_violation"
}
