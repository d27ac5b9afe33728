package vm

import "sort"

// BreakPoints is a set of script offsets at which execution pauses.
// An ExecutionContext and every context cloned from it share one set,
// so a breakpoint added through any of them is visible through all.
type BreakPoints struct {
	m map[int]struct{}
}

// NewBreakPoints returns an empty set.
func NewBreakPoints() *BreakPoints {
	return &BreakPoints{m: make(map[int]struct{})}
}

func (b *BreakPoints) Add(pos int) {
	b.m[pos] = struct{}{}
}

// Remove deletes pos from the set and reports whether it was present.
func (b *BreakPoints) Remove(pos int) bool {
	_, ok := b.m[pos]
	delete(b.m, pos)
	return ok
}

func (b *BreakPoints) Has(pos int) bool {
	_, ok := b.m[pos]
	return ok
}

// List returns the offsets in ascending order.
func (b *BreakPoints) List() []int {
	res := make([]int, 0, len(b.m))
	for pos := range b.m {
		res = append(res, pos)
	}
	sort.Ints(res)
	return res
}

// script is the immutable code shared by a context and its clones.
type script struct {
	code   []byte
	crypto Crypto
	hash   []byte // Hash160 of code, computed on first use
}

// ExecutionContext is one activation of a script on the invocation
// stack. It owns only a cursor; the value stacks belong to the Engine.
type ExecutionContext struct {
	script      *script
	pushOnly    bool
	breakPoints *BreakPoints
	ip          int
	released    bool
}

func newContext(crypto Crypto, code []byte, pushOnly bool, bp *BreakPoints) *ExecutionContext {
	if bp == nil {
		bp = NewBreakPoints()
	}
	return &ExecutionContext{
		script:      &script{code: code, crypto: crypto},
		pushOnly:    pushOnly,
		breakPoints: bp,
	}
}

// Script returns the context's code. Callers must not modify it.
func (c *ExecutionContext) Script() []byte {
	return c.script.code
}

// PushOnly reports whether the context may execute only push opcodes.
func (c *ExecutionContext) PushOnly() bool {
	return c.pushOnly
}

// IP returns the offset of the next instruction.
func (c *ExecutionContext) IP() int {
	return c.ip
}

// SetIP moves the cursor. The offset must lie in [0, len(script)];
// len(script) means the script is finished.
func (c *ExecutionContext) SetIP(offset int) error {
	if offset < 0 || offset > len(c.script.code) {
		return ErrBadJump
	}
	c.ip = offset
	return nil
}

// AtEnd reports whether the cursor is at the end of the script.
func (c *ExecutionContext) AtEnd() bool {
	return c.ip >= len(c.script.code)
}

// NextInstruction returns the opcode at the cursor without
// consuming it. The second result is false at the end of the script.
func (c *ExecutionContext) NextInstruction() (Op, bool) {
	if c.AtEnd() {
		return OP_RET, false
	}
	return Op(c.script.code[c.ip]), true
}

// ScriptHash returns the Hash160 of the script. The hash is computed
// at most once for a context and the contexts cloned from it.
func (c *ExecutionContext) ScriptHash() []byte {
	if c.script.hash == nil {
		c.script.hash = c.script.crypto.Hash160(c.script.code)
	}
	return c.script.hash
}

// BreakPoints returns the breakpoint set shared with clones.
func (c *ExecutionContext) BreakPoints() *BreakPoints {
	return c.breakPoints
}

// Clone returns a context over the same script, push-only flag and
// breakpoint set, positioned at c's current cursor.
func (c *ExecutionContext) Clone() *ExecutionContext {
	return &ExecutionContext{
		script:      c.script,
		pushOnly:    c.pushOnly,
		breakPoints: c.breakPoints,
		ip:          c.ip,
	}
}

// Release tears the context down. The engine calls it exactly once,
// when the context leaves the invocation stack.
func (c *ExecutionContext) Release() {
	c.released = true
}

// Released reports whether Release has been called.
func (c *ExecutionContext) Released() bool {
	return c.released
}
