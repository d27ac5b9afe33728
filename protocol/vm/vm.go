package vm

import (
	"fmt"
	"io"
	"math/big"

	"github.com/vardthomas/neo-vm/errors"
)

const (
	// MaxItemSize bounds the byte form of any value an opcode produces.
	MaxItemSize = 1024 * 1024

	// MaxArraySize bounds the length of Arrays and Structs.
	MaxArraySize = 1024

	// MaxSizeForBigInteger bounds the byte form of arithmetic
	// operands and results.
	MaxSizeForBigInteger = 32

	// maxShift bounds the shift amount of SHL and SHR.
	maxShift = 256
)

// Engine executes scripts. It is not safe for concurrent use.
type Engine struct {
	crypto    Crypto
	table     ScriptTable
	container ScriptContainer
	services  map[string]SysCallFunc
	trace     io.Writer

	// invocation[len(invocation)-1] is the current context.
	invocation []*ExecutionContext
	eval       *Stack
	alt        *Stack

	state VMState
	err   error

	// The instruction being executed: its context, its position
	// in that context's script, and its inline operand.
	ctx  *ExecutionContext
	pc   int
	op   Op
	data []byte
}

// Option configures an Engine.
type Option func(*Engine)

// WithScriptTable sets the table APPCALL and TAILCALL resolve
// script hashes against. Without one, every cross-script call faults.
func WithScriptTable(t ScriptTable) Option {
	return func(e *Engine) { e.table = t }
}

// WithScriptContainer sets the source of the message signature
// checks verify against.
func WithScriptContainer(c ScriptContainer) Option {
	return func(e *Engine) { e.container = c }
}

// WithService registers fn as the SYSCALL handler for name,
// replacing any handler already registered under that name.
func WithService(name string, fn SysCallFunc) Option {
	return func(e *Engine) { e.services[name] = fn }
}

// WithServices registers every handler in m.
func WithServices(m map[string]SysCallFunc) Option {
	return func(e *Engine) {
		for name, fn := range m {
			e.services[name] = fn
		}
	}
}

// WithTrace makes the engine write a line for every instruction
// it executes, followed by the evaluation stack, to w.
func WithTrace(w io.Writer) Option {
	return func(e *Engine) { e.trace = w }
}

// New returns an engine with no scripts loaded.
func New(crypto Crypto, opts ...Option) *Engine {
	e := &Engine{
		crypto:   crypto,
		services: make(map[string]SysCallFunc),
		eval:     newStack(ErrEvalStackUnderflow),
		alt:      newStack(ErrAltStackUnderflow),
	}
	for name, fn := range builtinServices {
		e.services[name] = fn
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// LoadScript pushes a new context for script onto the invocation
// stack and returns it. The new context becomes the current one.
func (e *Engine) LoadScript(script []byte, pushOnly bool) *ExecutionContext {
	ctx := newContext(e.crypto, script, pushOnly, nil)
	e.invocation = append(e.invocation, ctx)
	return ctx
}

// State returns the engine's current VMState.
func (e *Engine) State() VMState {
	return e.state
}

// Err returns the reason for a FAULT, or nil. The result is an
// Error; use errors.Root to recover the underlying sentinel.
func (e *Engine) Err() error {
	return e.err
}

// EvaluationStack returns the stack that opcodes operate on.
func (e *Engine) EvaluationStack() *Stack { return e.eval }

// AltStack returns the auxiliary stack used by TOALTSTACK and FROMALTSTACK.
func (e *Engine) AltStack() *Stack { return e.alt }

// Crypto returns the signature and hashing provider given to New.
func (e *Engine) Crypto() Crypto { return e.crypto }

// ScriptContainer returns the container set with WithScriptContainer.
func (e *Engine) ScriptContainer() ScriptContainer {
	return e.container
}

// InvocationDepth returns the number of contexts on the invocation stack.
func (e *Engine) InvocationDepth() int {
	return len(e.invocation)
}

// CurrentContext returns the context on top of the invocation stack,
// or nil if it is empty.
func (e *Engine) CurrentContext() *ExecutionContext {
	return e.contextAt(0)
}

// CallingContext returns the context beneath the current one,
// or nil if there is none.
func (e *Engine) CallingContext() *ExecutionContext {
	return e.contextAt(1)
}

// EntryContext returns the context at the bottom of the invocation
// stack, or nil if it is empty.
func (e *Engine) EntryContext() *ExecutionContext {
	return e.contextAt(len(e.invocation) - 1)
}

func (e *Engine) contextAt(n int) *ExecutionContext {
	if n < 0 || n >= len(e.invocation) {
		return nil
	}
	return e.invocation[len(e.invocation)-1-n]
}

// AddBreakPoint adds a breakpoint at pos in the current context's
// script. It has no effect if no script is loaded.
func (e *Engine) AddBreakPoint(pos int) {
	if ctx := e.CurrentContext(); ctx != nil {
		ctx.breakPoints.Add(pos)
	}
}

// RemoveBreakPoint removes a breakpoint from the current context's
// script and reports whether there was one at pos.
func (e *Engine) RemoveBreakPoint(pos int) bool {
	ctx := e.CurrentContext()
	return ctx != nil && ctx.breakPoints.Remove(pos)
}

// Step executes at most one instruction. If the engine is paused at
// a breakpoint, Step resumes it by executing the instruction there.
// If the next instruction is at a breakpoint, Step sets BREAK
// instead of executing it.
func (e *Engine) Step() {
	e.step(e.state.HasFlag(BREAK))
}

// Execute steps until the engine halts, faults or reaches a breakpoint.
func (e *Engine) Execute() {
	for {
		e.Step()
		if e.state != NONE {
			return
		}
	}
}

// StepInto executes exactly one instruction, ignoring any breakpoint
// at the current position.
func (e *Engine) StepInto() {
	e.step(true)
}

// StepOver executes one instruction and, if it entered a new
// context, continues until that context returns. The engine is left
// in BREAK unless it halted or faulted.
func (e *Engine) StepOver() {
	if e.state.terminal() {
		return
	}
	depth := len(e.invocation)
	e.step(true)
	for e.state == NONE && len(e.invocation) > depth {
		e.step(false)
	}
	e.pause()
}

// StepOut continues until the current context returns. The engine is
// left in BREAK unless it halted or faulted.
func (e *Engine) StepOut() {
	if e.state.terminal() {
		return
	}
	depth := len(e.invocation)
	e.step(true)
	for e.state == NONE && len(e.invocation) >= depth {
		e.step(false)
	}
	e.pause()
}

func (e *Engine) pause() {
	if !e.state.terminal() {
		e.state |= BREAK
	}
}

func (e *Engine) step(resume bool) {
	if e.state.terminal() {
		return
	}
	e.state &^= BREAK
	if len(e.invocation) == 0 {
		e.state = HALT
		return
	}
	ctx := e.CurrentContext()
	if !resume && ctx.breakPoints.Has(ctx.ip) {
		e.state |= BREAK
		return
	}

	err := e.execute(ctx)
	if err != nil {
		e.fault(err)
	}
}

func (e *Engine) execute(ctx *ExecutionContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.WithDetailf(ErrUnexpected, "%v", r)
		}
	}()

	e.ctx, e.pc, e.data = ctx, ctx.ip, nil
	op, ok := ctx.NextInstruction()
	e.op = op
	if !ok {
		// end of script
		e.traceOp(Instruction{Op: OP_RET})
		return opRet(e)
	}
	if ctx.pushOnly && !IsPush(op) {
		return ErrPushOnly
	}

	inst, err := ParseOp(ctx.script.code, ctx.ip)
	if err != nil {
		return err
	}
	if ops[op].fn == nil {
		return ErrUnknownOpcode
	}

	ctx.ip += inst.Len
	e.data = inst.Data
	e.traceOp(inst)

	err = ops[op].fn(e)
	if err != nil {
		return err
	}

	if e.trace != nil {
		for i, item := range e.eval.Items() {
			fmt.Fprintf(e.trace, "  stack %d: %s\n", i, item)
		}
	}
	return nil
}

func (e *Engine) traceOp(inst Instruction) {
	if e.trace == nil {
		return
	}
	fmt.Fprintf(e.trace, "vm %d pc %d %s", len(e.invocation), e.pc, inst.Op)
	if len(inst.Data) > 0 {
		fmt.Fprintf(e.trace, " %x", inst.Data)
	}
	fmt.Fprint(e.trace, "\n")
}

// fault records err and unwinds the invocation stack, releasing
// every context on it.
func (e *Engine) fault(err error) {
	e.state = FAULT
	e.err = Error{
		Err:    err,
		Script: e.ctx.script.code,
		PC:     e.pc,
		Op:     e.op,
	}
	for len(e.invocation) > 0 {
		e.popContext()
	}
}

func (e *Engine) pushContext(ctx *ExecutionContext) {
	e.invocation = append(e.invocation, ctx)
}

func (e *Engine) popContext() {
	n := len(e.invocation) - 1
	e.invocation[n].Release()
	e.invocation[n] = nil
	e.invocation = e.invocation[:n]
}

// Helpers used by the opcode implementations. The peek helpers
// read without popping so that an opcode can check all of its
// operands before it changes a stack.

func (e *Engine) peekBytes(n int) ([]byte, error) {
	item, err := e.eval.Peek(n)
	if err != nil {
		return nil, err
	}
	return item.Bytes()
}

func (e *Engine) peekBool(n int) (bool, error) {
	item, err := e.eval.Peek(n)
	if err != nil {
		return false, err
	}
	return item.Bool(), nil
}

func (e *Engine) peekBigInt(n int) (*big.Int, error) {
	item, err := e.eval.Peek(n)
	if err != nil {
		return nil, err
	}
	x, err := item.BigInt()
	if err != nil {
		return nil, err
	}
	if b := BigIntBytes(x); len(b) > MaxSizeForBigInteger {
		return nil, errors.WithDetailf(ErrRange, "integer operand of %d bytes", len(b))
	}
	return x, nil
}

// peekInt reads an index or count operand.
func (e *Engine) peekInt(n int) (int, error) {
	item, err := e.eval.Peek(n)
	if err != nil {
		return 0, err
	}
	x, err := item.BigInt()
	if err != nil {
		return 0, err
	}
	return bigToInt(x)
}

// replace drops the top n items of the evaluation stack and pushes
// the given items in order.
func (e *Engine) replace(n int, items ...StackItem) error {
	err := e.eval.Drop(n)
	if err != nil {
		return err
	}
	for _, item := range items {
		e.eval.Push(item)
	}
	return nil
}

// Error is the reason for a FAULT, with the script, position and
// opcode at which it occurred.
type Error struct {
	Err    error
	Script []byte
	PC     int
	Op     Op
}

func (e Error) Error() string {
	dis, err := Disassemble(e.Script)
	if err != nil {
		dis = "???"
	}
	return fmt.Sprintf("%s [op %s at %d; script %x = %s]", e.Err.Error(), e.Op, e.PC, e.Script, dis)
}

func (e Error) Unwrap() error {
	return e.Err
}
