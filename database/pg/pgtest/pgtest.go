// Package pgtest creates throwaway Postgres databases for tests.
package pgtest

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/vardthomas/neo-vm/database/pg"
)

// URLEnv names the environment variable holding the URL of a
// Postgres server tests may create databases on. Tests that need
// a database are skipped when it is empty.
const URLEnv = "NEOVM_TEST_DATABASE_URL"

var random = rand.New(rand.NewSource(time.Now().UnixNano()))

// NewDB creates a database with a random name, initializes it with
// schema and returns it. The database is dropped when the test ends.
func NewDB(t testing.TB, schema string) *sql.DB {
	baseURL := os.Getenv(URLEnv)
	if baseURL == "" {
		t.Skipf("%s not set", URLEnv)
	}
	ctx := context.Background()

	u, err := url.Parse(baseURL)
	if err != nil {
		t.Fatal(err)
	}
	ctldb, err := pg.Open(ctx, baseURL, false)
	if err != nil {
		t.Fatal(err)
	}

	dbname := fmt.Sprintf("pgtest_%s_%d", time.Now().UTC().Format("20060102150405"), random.Int31())
	_, err = ctldb.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(dbname))
	if err != nil {
		ctldb.Close()
		t.Fatal(err)
	}
	u.Path = "/" + dbname
	db, err := pg.Open(ctx, u.String(), false)
	if err != nil {
		ctldb.Close()
		t.Fatal(err)
	}
	t.Cleanup(func() {
		db.Close()
		ctldb.ExecContext(context.Background(), "DROP DATABASE "+pq.QuoteIdentifier(dbname))
		ctldb.Close()
	})

	_, err = db.ExecContext(ctx, schema)
	if err != nil {
		t.Fatal(err)
	}
	return db
}
