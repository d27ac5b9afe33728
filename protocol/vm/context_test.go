package vm

import (
	"bytes"
	"testing"

	"github.com/vardthomas/neo-vm/testutil"
)

func TestContextClone(t *testing.T) {
	crypto := new(testCrypto)
	ctx := newContext(crypto, mustAssemble("1 2 3"), true, nil)
	ctx.SetIP(1)

	c := ctx.Clone()
	if c.IP() != 1 || !c.PushOnly() || !bytes.Equal(c.Script(), ctx.Script()) {
		t.Fatalf("clone = ip %d push-only %v", c.IP(), c.PushOnly())
	}

	// Cursors are independent.
	c.SetIP(2)
	if ctx.IP() != 1 {
		t.Errorf("original ip = %d want 1", ctx.IP())
	}

	// Breakpoints are shared in both directions.
	ctx.BreakPoints().Add(2)
	c.BreakPoints().Add(0)
	if want := []int{0, 2}; !testutil.DeepEqual(ctx.BreakPoints().List(), want) || !testutil.DeepEqual(c.BreakPoints().List(), want) {
		t.Errorf("breakpoints = %v, %v want %v", ctx.BreakPoints().List(), c.BreakPoints().List(), want)
	}
	if !c.BreakPoints().Remove(2) || ctx.BreakPoints().Has(2) {
		t.Error("removal through clone not visible in original")
	}

	// The script hash is computed once for the family.
	h1 := ctx.ScriptHash()
	h2 := c.ScriptHash()
	h3 := c.Clone().ScriptHash()
	if !bytes.Equal(h1, h2) || !bytes.Equal(h1, h3) || len(h1) != HashLen {
		t.Errorf("hashes %x %x %x", h1, h2, h3)
	}
	if crypto.hash160Calls != 1 {
		t.Errorf("Hash160 called %d times want 1", crypto.hash160Calls)
	}
}

func TestContextCursor(t *testing.T) {
	ctx := newContext(new(testCrypto), []byte{byte(OP_PUSH1), byte(OP_ADD)}, false, nil)

	op, ok := ctx.NextInstruction()
	if op != OP_PUSH1 || !ok || ctx.IP() != 0 {
		t.Errorf("NextInstruction() = %s, %v at %d", op, ok, ctx.IP())
	}
	for _, c := range []struct {
		ip      int
		wantErr error
		atEnd   bool
	}{
		{0, nil, false},
		{2, nil, true},
		{3, ErrBadJump, true},
		{-1, ErrBadJump, true},
	} {
		if err := ctx.SetIP(c.ip); err != c.wantErr {
			t.Errorf("SetIP(%d) err = %v want %v", c.ip, err, c.wantErr)
		}
		if ctx.AtEnd() != c.atEnd {
			t.Errorf("after SetIP(%d): AtEnd() = %v want %v", c.ip, ctx.AtEnd(), c.atEnd)
		}
	}
	if op, ok := ctx.NextInstruction(); op != OP_RET || ok {
		t.Errorf("NextInstruction() at end = %s, %v want RET, false", op, ok)
	}
}

func TestScriptHashMemoized(t *testing.T) {
	crypto := new(testCrypto)
	e := New(crypto)
	e.LoadScript(mustAssemble("CALL:$f SYSCALL:System.ExecutionEngine.GetExecutingScriptHash RET $f SYSCALL:System.ExecutionEngine.GetExecutingScriptHash RET"), false)
	e.Execute()
	if e.State() != HALT {
		t.Fatalf("state = %s (err %v)", e.State(), e.Err())
	}
	a, _ := e.eval.Peek(0)
	b, _ := e.eval.Peek(1)
	if !a.Equal(b) {
		t.Errorf("hashes differ: %s %s", a, b)
	}
	if crypto.hash160Calls != 1 {
		t.Errorf("Hash160 called %d times want 1", crypto.hash160Calls)
	}
}
