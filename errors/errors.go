// Package errors records context on errors as they travel up the
// call stack: a message prefix, an optional detail for the user,
// and the stack where the error was first wrapped. The error first
// passed to Wrap stays recoverable with Root.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text. Errors made
// by New are meant to be package-level sentinels compared with Root.
func New(text string) error {
	return errors.New(text)
}

// chainError is the error produced by Wrap and its variants. Each
// wrap makes a new value; the root and stack are carried along.
type chainError struct {
	msg    string
	detail []string
	stack  []StackFrame
	root   error
}

func (e chainError) Error() string { return e.msg }

// Unwrap lets the standard errors.Is and errors.As see the root.
func (e chainError) Unwrap() error { return e.root }

// extend returns err, wrapped if it is not already, with msg
// prepended to its message. A new stack starts skip frames above
// the caller of extend.
func extend(err error, msg string, skip int) chainError {
	c, ok := err.(chainError)
	if !ok {
		c = chainError{
			msg:   err.Error(),
			root:  err,
			stack: callers(skip+1, stackDepth),
		}
	}
	if msg != "" {
		c.msg = msg + ": " + c.msg
	}
	return c
}

// Wrap returns an error that formats as the text of a, as with
// fmt.Print, followed by err's own text. The stack is recorded the
// first time err is wrapped. Wrap returns nil if err is nil.
func Wrap(err error, a ...interface{}) error {
	if err == nil {
		return nil
	}
	return extend(err, fmt.Sprint(a...), 1)
}

// Wrapf is Wrap with fmt.Sprintf formatting.
func Wrapf(err error, format string, a ...interface{}) error {
	if err == nil {
		return nil
	}
	return extend(err, fmt.Sprintf(format, a...), 1)
}

// WithDetail wraps err with text as both message prefix and detail.
// Detail returns the details of an error joined by "; ".
func WithDetail(err error, text string) error {
	if err == nil {
		return nil
	}
	if text == "" {
		return err
	}
	c := extend(err, text, 1)
	c.detail = append(c.detail[:len(c.detail):len(c.detail)], text)
	return c
}

// WithDetailf is WithDetail with fmt.Sprintf formatting.
func WithDetailf(err error, format string, a ...interface{}) error {
	if err == nil {
		return nil
	}
	text := fmt.Sprintf(format, a...)
	c := extend(err, text, 1)
	c.detail = append(c.detail[:len(c.detail):len(c.detail)], text)
	return c
}

// Detail returns the detail text added to err by WithDetail and
// WithDetailf, innermost first, or "" if there is none.
func Detail(err error) string {
	var c chainError
	if !errors.As(err, &c) {
		return ""
	}
	return strings.Join(c.detail, "; ")
}

// Root follows Unwrap methods from e as far as they go and returns
// the last error reached. An error that wraps nothing is its own root.
func Root(e error) error {
	for {
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			return e
		}
		next := u.Unwrap()
		if next == nil {
			return e
		}
		e = next
	}
}

// Is is the standard library's errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is the standard library's errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
