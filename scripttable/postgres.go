package scripttable

import (
	"context"
	"database/sql"

	"github.com/vardthomas/neo-vm/crypto/vmcrypto"
	"github.com/vardthomas/neo-vm/database/pg"
	"github.com/vardthomas/neo-vm/errors"
)

// Schema creates the table read and written by Postgres.
const Schema = `
CREATE TABLE IF NOT EXISTS scripts (
	hash bytea PRIMARY KEY,
	script bytea NOT NULL
);
`

// Postgres is a ScriptTable stored in the scripts table of a
// Postgres database (see Schema).
type Postgres struct {
	db pg.DB
}

func NewPostgres(db pg.DB) *Postgres {
	return &Postgres{db: db}
}

// Put stores script and returns its hash. Storing a script twice
// is not an error.
func (p *Postgres) Put(ctx context.Context, script []byte) ([]byte, error) {
	hash := vmcrypto.Hash160(script)
	const q = `INSERT INTO scripts (hash, script) VALUES ($1, $2)`
	_, err := p.db.ExecContext(ctx, q, hash, script)
	if pg.IsUniqueViolation(err) {
		return hash, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "insert %x", hash)
	}
	return hash, nil
}

// Lookup returns the script with the given hash.
func (p *Postgres) Lookup(ctx context.Context, hash []byte) ([]byte, bool, error) {
	const q = `SELECT script FROM scripts WHERE hash = $1`
	var script []byte
	err := p.db.QueryRowContext(ctx, q, hash).Scan(&script)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "select %x", hash)
	}
	return script, true, nil
}

// GetScript is Lookup without a deadline. Wrap the table in a Cache
// to keep repeated calls off the database.
func (p *Postgres) GetScript(hash []byte) ([]byte, bool, error) {
	return p.Lookup(context.Background(), hash)
}

// Hashes returns the hashes of all stored scripts in byte order.
func (p *Postgres) Hashes(ctx context.Context) ([][]byte, error) {
	var hashes [][]byte
	const q = `SELECT hash FROM scripts ORDER BY hash`
	err := pg.ForQueryRows(ctx, p.db, q, func(hash []byte) {
		hashes = append(hashes, hash)
	})
	return hashes, err
}
