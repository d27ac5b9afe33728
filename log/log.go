// Package log writes structured log entries as K=V pairs, one entry
// per line. Output goes to stdout unless SetOutput says otherwise.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vardthomas/neo-vm/errors"
)

const rfc3339NanoFixed = "2006-01-02T15:04:05.000000000Z07:00"

// Keys and values are quoted or stubbed so that splitting an entry
// on these delimiters recovers its pairs.
const (
	pairDelims      = " ,;|&\t\n\r"
	illegalKeyChars = pairDelims + `="`
)

// Conventional key names for log entries
const (
	KeyCaller  = "at"      // location of caller
	KeyTime    = "t"       // time of call
	KeyMessage = "message" // produced by Messagef
	KeyError   = "error"   // produced by Error

	keyLogError = "log-error" // problems with the log call itself
)

var (
	mu  sync.Mutex // protects out
	out io.Writer  = os.Stdout
)

// SetOutput sets the log output to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	out = w
	mu.Unlock()
}

type prefixKey struct{}

// AddPrefixkv returns a context whose log entries begin with the
// given key-value pairs, after any added to ctx earlier.
func AddPrefixkv(ctx context.Context, keyval ...interface{}) context.Context {
	keyval = evenPairs(keyval, "odd number of prefix params")
	old := prefix(ctx)
	kvs := make([]interface{}, 0, len(old)+len(keyval))
	kvs = append(append(kvs, old...), keyval...)
	return context.WithValue(ctx, prefixKey{}, kvs)
}

func prefix(ctx context.Context) []interface{} {
	kvs, _ := ctx.Value(prefixKey{}).([]interface{})
	return kvs
}

func evenPairs(kvs []interface{}, complaint string) []interface{} {
	if len(kvs)%2 == 0 {
		return kvs
	}
	return append(kvs, "", keyLogError, complaint)
}

// Write writes a log entry made of the caller's file and line, the
// time, the pairs attached to ctx with AddPrefixkv, and keyvals,
// which alternate keys and values. Duplicate keys are kept.
//
// If the first key is KeyCaller, its value replaces the generated
// caller. Functions that wrap Write use this to report their own
// caller.
//
// An error logged under KeyError has its stack, if it carries one,
// written on the lines after the entry.
func Write(ctx context.Context, keyvals ...interface{}) {
	write(ctx, 1, keyvals)
}

func write(ctx context.Context, skip int, keyvals []interface{}) {
	keyvals = evenPairs(keyvals, "odd number of log params")

	var at string
	if len(keyvals) >= 2 && keyvals[0] == KeyCaller {
		at = formatValue(keyvals[1])
		keyvals = keyvals[2:]
	} else {
		at = caller(skip + 1)
	}

	var b strings.Builder
	b.WriteString(KeyCaller + "=" + at)
	b.WriteString(" " + KeyTime + "=" + time.Now().UTC().Format(rfc3339NanoFixed))
	pre := prefix(ctx)
	pairs := make([]interface{}, 0, len(pre)+len(keyvals))
	pairs = append(append(pairs, pre...), keyvals...)
	var stack []errors.StackFrame
	for i := 0; i+1 < len(pairs); i += 2 {
		k, v := pairs[i], pairs[i+1]
		if err, ok := v.(error); ok && k == KeyError && stack == nil {
			stack = errors.Stack(err)
		}
		b.WriteString(" " + formatKey(k) + "=" + formatValue(v))
	}
	b.WriteByte('\n')
	for _, f := range stack {
		b.WriteString(f.String() + "\n")
	}

	mu.Lock()
	io.WriteString(out, b.String()) // ignore errors
	mu.Unlock()
}

// Fatal is Write followed by os.Exit(1).
func Fatal(ctx context.Context, keyvals ...interface{}) {
	write(ctx, 1, keyvals)
	os.Exit(1)
}

// Messagef writes an entry whose KeyMessage value is formatted as
// with fmt.Sprintf.
func Messagef(ctx context.Context, format string, a ...interface{}) {
	write(ctx, 1, []interface{}{KeyMessage, fmt.Sprintf(format, a...)})
}

// Error writes an entry with err under KeyError. If a is not empty,
// it is formatted as with fmt.Print and prepended to the error text.
func Error(ctx context.Context, err error, a ...interface{}) {
	if len(a) > 0 && errors.Stack(err) != nil {
		err = errors.Wrap(err, a...)
	} else if len(a) > 0 {
		err = fmt.Errorf("%s: %w", fmt.Sprint(a...), err) // no stack to keep
	}
	write(ctx, 1, []interface{}{KeyError, err})
}

// caller returns the base file name and line of the function skip
// frames above the caller of caller, or "?:?".
func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "?:?"
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}

// formatKey replaces delimiter and quote characters in k with
// hyphens. An empty key becomes "?".
func formatKey(k interface{}) string {
	s := fmt.Sprint(k)
	if s == "" {
		return "?"
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegalKeyChars, r) {
			return '-'
		}
		return r
	}, s)
}

// formatValue quotes v if it contains a delimiter.
func formatValue(v interface{}) string {
	s := fmt.Sprint(v)
	if strings.ContainsAny(s, pairDelims) {
		return strconv.Quote(s)
	}
	return s
}
