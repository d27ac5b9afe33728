package pg

import (
	"context"
	"database/sql"
	"reflect"

	"github.com/vardthomas/neo-vm/errors"
)

var ErrBadRequest = errors.New("bad request")

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// ForQueryRows runs query with all but the last of args, and calls
// the last arg, a function, once per result row. The function's
// parameters receive the row's columns, so they must match the
// result columns in number and type. The function may return an
// error; a non-nil one stops the scan and is returned.
//
//	err = ForQueryRows(ctx, db, `SELECT hash, script FROM scripts`, func(hash, script []byte) {
//		...
//	})
func ForQueryRows(ctx context.Context, db DB, query string, args ...interface{}) error {
	if len(args) == 0 {
		return errors.WithDetail(ErrBadRequest, "no callback")
	}
	fn, err := newRowFunc(args[len(args)-1])
	if err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, query, args[:len(args)-1]...)
	if err != nil {
		return errors.Wrap(err, "query")
	}
	defer rows.Close()
	for rows.Next() {
		err = fn.call(rows)
		if err != nil {
			return err
		}
	}
	return errors.Wrap(rows.Err(), "end scan")
}

// rowFunc is a callback checked once and called per row.
type rowFunc struct {
	fn         reflect.Value
	params     []reflect.Type
	returnsErr bool
}

func newRowFunc(f interface{}) (*rowFunc, error) {
	t := reflect.TypeOf(f)
	if t == nil || t.Kind() != reflect.Func {
		return nil, errors.WithDetailf(ErrBadRequest, "callback is %T, not a function", f)
	}
	if t.NumOut() > 1 || (t.NumOut() == 1 && t.Out(0) != errorType) {
		return nil, errors.WithDetail(ErrBadRequest, "callback must return nothing or an error")
	}
	rf := &rowFunc{fn: reflect.ValueOf(f), returnsErr: t.NumOut() == 1}
	for i := 0; i < t.NumIn(); i++ {
		rf.params = append(rf.params, t.In(i))
	}
	return rf, nil
}

func (rf *rowFunc) call(rows *sql.Rows) error {
	dest := make([]interface{}, len(rf.params))
	in := make([]reflect.Value, len(rf.params))
	for i, t := range rf.params {
		p := reflect.New(t)
		dest[i] = p.Interface()
		in[i] = p.Elem()
	}
	err := rows.Scan(dest...)
	if err != nil {
		return errors.Wrap(err, "scan")
	}
	out := rf.fn.Call(in)
	if rf.returnsErr && !out[0].IsNil() {
		return errors.Wrap(out[0].Interface().(error), "callback")
	}
	return nil
}
