package scripttable

import (
	"github.com/syndtr/goleveldb/leveldb"
	leveldbstorage "github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/vardthomas/neo-vm/crypto/vmcrypto"
	"github.com/vardthomas/neo-vm/errors"
)

// Scripts are stored under this prefix followed by their hash.
var scriptPrefix = []byte("script:")

// LevelDB is a ScriptTable persisted in a LevelDB database.
type LevelDB struct {
	db *leveldb.DB
}

// OpenLevelDB opens or creates the database at path.
// An empty path opens an in-memory database.
func OpenLevelDB(path string) (*LevelDB, error) {
	var (
		db  *leveldb.DB
		err error
	)
	if path == "" {
		db, err = leveldb.Open(leveldbstorage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening script database %q", path)
	}
	return &LevelDB{db: db}, nil
}

func scriptKey(hash []byte) []byte {
	return append(append([]byte{}, scriptPrefix...), hash...)
}

// Put stores script and returns its hash.
func (l *LevelDB) Put(script []byte) ([]byte, error) {
	hash := vmcrypto.Hash160(script)
	err := l.db.Put(scriptKey(hash), script, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "put %x", hash)
	}
	return hash, nil
}

// Delete removes the script with the given hash, if present.
func (l *LevelDB) Delete(hash []byte) error {
	return errors.Wrapf(l.db.Delete(scriptKey(hash), nil), "delete %x", hash)
}

func (l *LevelDB) GetScript(hash []byte) ([]byte, bool, error) {
	script, err := l.db.Get(scriptKey(hash), nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "get %x", hash)
	}
	return script, true, nil
}

// Hashes returns the hashes of all stored scripts in key order.
func (l *LevelDB) Hashes() ([][]byte, error) {
	iter := l.db.NewIterator(util.BytesPrefix(scriptPrefix), nil)
	defer iter.Release()

	var hashes [][]byte
	for iter.Next() {
		hashes = append(hashes, append([]byte(nil), iter.Key()[len(scriptPrefix):]...))
	}
	return hashes, errors.Wrap(iter.Error(), "iterating scripts")
}

func (l *LevelDB) Close() error {
	return l.db.Close()
}
