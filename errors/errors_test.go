package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestWrap(t *testing.T) {
	err := errors.New("0")
	err1 := Wrap(err, "1")
	err2 := Wrap(err1, "2")
	err3 := Wrap(err2)

	if got := Root(err1); got != err {
		t.Fatalf("Root(%v)=%v want %v", err1, got, err)
	}

	if got := Root(err2); got != err {
		t.Fatalf("Root(%v)=%v want %v", err2, got, err)
	}

	if err2.Error() != "2: 1: 0" {
		t.Fatalf("err msg = %s want '2: 1: 0'", err2.Error())
	}

	if err3.Error() != "2: 1: 0" {
		t.Fatalf("err msg = %s want '2: 1: 0'", err3.Error())
	}
}

func TestWrapNil(t *testing.T) {
	var err error

	err1 := Wrap(err, "1")
	if err1 != nil {
		t.Fatal("wrapping nil error should yield nil")
	}
}

func TestWrapf(t *testing.T) {
	err := errors.New("0")
	err1 := Wrapf(err, "there are %d errors being wrapped", 1)
	if err1.Error() != "there are 1 errors being wrapped: 0" {
		t.Fatalf("err msg = %s want 'there are 1 errors being wrapped: 0'", err1.Error())
	}
}

func TestWrapMsg(t *testing.T) {
	err := errors.New("rooti")
	err1 := Wrap(err, "cherry", " ", "guava")
	if err1.Error() != "cherry guava: rooti" {
		t.Fatalf("err msg = %s want 'cherry guava: rooti'", err1.Error())
	}
}

type faultError struct {
	err error
}

func (e faultError) Error() string { return "fault: " + e.err.Error() }
func (e faultError) Unwrap() error { return e.err }

func TestRootUnwrap(t *testing.T) {
	root := errors.New("underflow")
	err := Wrap(faultError{WithDetail(root, "at pc 3")}, "step")

	if got := Root(err); got != root {
		t.Fatalf("Root(%v)=%v want %v", err, got, root)
	}
	if !Is(err, root) {
		t.Fatalf("Is(%v, %v) = false want true", err, root)
	}

	var fe faultError
	if !As(err, &fe) {
		t.Fatalf("As(%v) = false want true", err)
	}
	if got := Detail(fe.err); got != "at pc 3" {
		t.Fatalf("Detail = %q want %q", got, "at pc 3")
	}
}

func TestDetail(t *testing.T) {
	root := errors.New("bad value")
	err := WithDetailf(root, "index %d", 3)
	err = Wrap(err, "PICKITEM")
	err = WithDetail(err, "in script ab")

	if got := Detail(err); got != "index 3; in script ab" {
		t.Fatalf("Detail = %q", got)
	}
	if got := err.Error(); got != "in script ab: PICKITEM: index 3: bad value" {
		t.Fatalf("err msg = %s", got)
	}
	if got := Detail(root); got != "" {
		t.Fatalf("Detail(root) = %q want empty", got)
	}
	if WithDetail(root, "") != root {
		t.Fatal("empty detail should not wrap")
	}
}

func TestStack(t *testing.T) {
	err := Wrap(errors.New("x"))
	stack := Stack(err)
	if len(stack) == 0 {
		t.Fatal("no stack recorded")
	}
	if !strings.HasSuffix(stack[0].Func, "TestStack") {
		t.Fatalf("stack starts at %s want TestStack", stack[0])
	}

	// Wrapping again keeps the first stack.
	again := func() error { return Wrap(err, "again") }()
	if got := Stack(again); got[0] != stack[0] {
		t.Fatalf("stack starts at %s want %s", got[0], stack[0])
	}
	if Stack(errors.New("plain")) != nil {
		t.Fatal("plain error has a stack")
	}
}
