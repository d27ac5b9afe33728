package vm

import (
	"encoding/binary"

	"github.com/vardthomas/neo-vm/errors"
)

func opNop(e *Engine) error {
	return nil
}

// jumpTarget decodes the 2-byte signed offset operand and returns
// the absolute position it refers to, relative to the opcode.
func (e *Engine) jumpTarget() (int, error) {
	offset := int16(binary.LittleEndian.Uint16(e.data))
	target := e.pc + int(offset)
	if target < 0 || target > len(e.ctx.script.code) {
		return 0, errors.WithDetailf(ErrBadJump, "target %d", target)
	}
	return target, nil
}

// opJmp implements JMP, JMPIF and JMPIFNOT.
func opJmp(e *Engine) error {
	target, err := e.jumpTarget()
	if err != nil {
		return err
	}
	taken := true
	if e.op != OP_JMP {
		taken, err = e.peekBool(0)
		if err != nil {
			return err
		}
		if e.op == OP_JMPIFNOT {
			taken = !taken
		}
		e.eval.Drop(1)
	}
	if taken {
		return e.ctx.SetIP(target)
	}
	return nil
}

func opCall(e *Engine) error {
	target, err := e.jumpTarget()
	if err != nil {
		return err
	}
	callee := e.ctx.Clone()
	err = callee.SetIP(target)
	if err != nil {
		return err
	}
	e.pushContext(callee)
	return nil
}

func opRet(e *Engine) error {
	e.popContext()
	if len(e.invocation) == 0 {
		e.state = HALT
	}
	return nil
}

// opAppCall implements APPCALL and TAILCALL. An all-zero hash
// operand means the hash is taken from the evaluation stack.
func opAppCall(e *Engine) error {
	if e.table == nil {
		return errors.WithDetail(ErrScriptNotFound, "no script table")
	}
	hash, fromStack := e.data, true
	for _, b := range e.data {
		if b != 0 {
			fromStack = false
			break
		}
	}
	if fromStack {
		var err error
		hash, err = e.peekBytes(0)
		if err != nil {
			return err
		}
		if len(hash) != HashLen {
			return errors.WithDetailf(ErrBadValue, "script hash of %d bytes", len(hash))
		}
	}

	script, ok, err := e.table.GetScript(hash)
	if err != nil {
		return errors.Wrapf(err, "looking up script %x", hash)
	}
	if !ok {
		return errors.WithDetailf(ErrScriptNotFound, "hash %x", hash)
	}

	if fromStack {
		e.eval.Drop(1)
	}
	if e.op == OP_TAILCALL {
		e.popContext()
	}
	e.LoadScript(script, false)
	return nil
}

func opSysCall(e *Engine) error {
	name := string(e.data)
	fn, ok := e.services[name]
	if !ok {
		return errors.WithDetailf(ErrUnknownSysCall, "%q", name)
	}
	return errors.Wrap(fn(e), name)
}

func opThrow(e *Engine) error {
	return ErrThrow
}

func opThrowIfNot(e *Engine) error {
	ok, err := e.peekBool(0)
	if err != nil {
		return err
	}
	if !ok {
		return ErrThrow
	}
	return e.eval.Drop(1)
}
