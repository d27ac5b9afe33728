package pg

import (
	"context"
	"database/sql/driver"
	"fmt"

	"github.com/vardthomas/neo-vm/log"
)

// Longest argument text logged with a query, in bytes.
const maxArgsLogLen = 20

func logQuery(ctx context.Context, query string, args interface{}) {
	s := fmt.Sprint(args)
	if len(s) > maxArgsLogLen {
		s = s[:maxArgsLogLen-3] + "..."
	}
	log.Write(ctx, "query", query, "args", s)
}

// LogDriver returns a driver that logs each statement before
// passing it to d. Statements run with a context are logged with
// that context's prefix.
func LogDriver(d driver.Driver) driver.Driver {
	return logDriver{d}
}

type logDriver struct {
	driver.Driver
}

func (ld logDriver) Open(name string) (driver.Conn, error) {
	c, err := ld.Driver.Open(name)
	if err != nil {
		return nil, err
	}
	return &logConn{c}, nil
}

type logConn struct {
	driver.Conn
}

func (lc *logConn) Prepare(query string) (driver.Stmt, error) {
	stmt, err := lc.Conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	return &logStmt{query, stmt}, nil
}

func (lc *logConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	execer, ok := lc.Conn.(driver.ExecerContext)
	if !ok {
		return nil, driver.ErrSkip
	}
	logQuery(ctx, query, namedValues(args))
	return execer.ExecContext(ctx, query, args)
}

func (lc *logConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	queryer, ok := lc.Conn.(driver.QueryerContext)
	if !ok {
		return nil, driver.ErrSkip
	}
	logQuery(ctx, query, namedValues(args))
	return queryer.QueryContext(ctx, query, args)
}

type logStmt struct {
	query string
	driver.Stmt
}

func (ls *logStmt) Exec(args []driver.Value) (driver.Result, error) {
	logQuery(context.Background(), ls.query, args)
	return ls.Stmt.Exec(args)
}

func (ls *logStmt) Query(args []driver.Value) (driver.Rows, error) {
	logQuery(context.Background(), ls.query, args)
	return ls.Stmt.Query(args)
}

func namedValues(args []driver.NamedValue) []driver.Value {
	vals := make([]driver.Value, len(args))
	for i, a := range args {
		vals[i] = a.Value
	}
	return vals
}
