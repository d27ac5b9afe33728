// Package env provides a convenient way to convert environment
// variables into Go data. It is similar in design to package
// flag: variables are declared first and filled in by Parse.
package env

import (
	"os"
	"strconv"
	"time"

	"github.com/vardthomas/neo-vm/errors"
)

// ErrBadValue is the root of errors returned by Parse.
var ErrBadValue = errors.New("bad environment value")

var funcs []func() error

func define(name string, parse func(string) error) {
	funcs = append(funcs, func() error {
		s := os.Getenv(name)
		if s == "" {
			return nil
		}
		if err := parse(s); err != nil {
			return errors.WithDetailf(ErrBadValue, "%s=%q: %s", name, s, err)
		}
		return nil
	})
}

// Int returns a new int pointer.
// When Parse is called,
// env var name will be parsed
// and the resulting value
// will be assigned to the returned location.
func Int(name string, value int) *int {
	p := new(int)
	IntVar(p, name, value)
	return p
}

// IntVar defines an int var with the specified
// name and default value. The argument p points
// to an int variable in which to store the
// value of the environment var.
func IntVar(p *int, name string, value int) {
	*p = value
	define(name, func(s string) error {
		v, err := strconv.Atoi(s)
		if err == nil {
			*p = v
		}
		return err
	})
}

// Bool returns a new bool pointer, parsed with strconv.ParseBool.
func Bool(name string, value bool) *bool {
	p := new(bool)
	BoolVar(p, name, value)
	return p
}

func BoolVar(p *bool, name string, value bool) {
	*p = value
	define(name, func(s string) error {
		v, err := strconv.ParseBool(s)
		if err == nil {
			*p = v
		}
		return err
	})
}

// Duration returns a new time.Duration pointer, parsed with
// time.ParseDuration.
func Duration(name string, value time.Duration) *time.Duration {
	p := new(time.Duration)
	DurationVar(p, name, value)
	return p
}

func DurationVar(p *time.Duration, name string, value time.Duration) {
	*p = value
	define(name, func(s string) error {
		v, err := time.ParseDuration(s)
		if err == nil {
			*p = v
		}
		return err
	})
}

// String returns a new string pointer.
// When Parse is called,
// env var name will be assigned
// to the returned location.
func String(name string, value string) *string {
	p := new(string)
	StringVar(p, name, value)
	return p
}

func StringVar(p *string, name string, value string) {
	*p = value
	define(name, func(s string) error {
		*p = s
		return nil
	})
}

// Parse parses known env vars
// and assigns the values to the variables
// that were previously registered.
// Every variable is visited; the error for the
// first one that could not be parsed is returned.
func Parse() error {
	var first error
	for _, f := range funcs {
		if err := f(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
