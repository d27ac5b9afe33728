package vmutil

import (
	"encoding/binary"
	"math"
	"math/big"

	"github.com/vardthomas/neo-vm/errors"
	"github.com/vardthomas/neo-vm/protocol/vm"
)

var (
	ErrBadHashLength  = errors.New("script hash must be 20 bytes")
	ErrBadJumpOp      = errors.New("not a jump opcode")
	ErrJumpRange      = errors.New("jump offset out of range")
	ErrUnresolvedJump = errors.New("unresolved jump target")
	ErrBadSysCall     = errors.New("bad syscall name")
)

// Builder assembles a script one instruction at a time. The Add
// methods never fail directly: the first invalid instruction is
// remembered and reported by Build, and nothing after it is added.
type Builder struct {
	program     []byte
	jumpCounter int
	err         error

	// Maps a jump target number to its absolute address.
	jumpAddr map[int]int

	// Maps a jump target number to the positions of the jump
	// opcodes whose offsets must be filled in once it is known.
	jumpPlaceholders map[int][]int
}

func NewBuilder() *Builder {
	return &Builder{
		jumpAddr:         make(map[int]int),
		jumpPlaceholders: make(map[int][]int),
	}
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// AddInt64 adds the shortest instruction that pushes n.
func (b *Builder) AddInt64(n int64) *Builder {
	return b.AddRawBytes(vm.PushdataInt64(n))
}

// AddBigInt adds the shortest instruction that pushes n. Integers
// wider than the engine accepts as arithmetic operands are rejected.
func (b *Builder) AddBigInt(n *big.Int) *Builder {
	if l := len(vm.BigIntBytes(n)); l > vm.MaxSizeForBigInteger {
		return b.fail(errors.WithDetailf(ErrBadValue, "integer of %d bytes", l))
	}
	return b.AddRawBytes(vm.PushdataInt(n))
}

// AddBool adds PUSHT or PUSHF.
func (b *Builder) AddBool(v bool) *Builder {
	if v {
		return b.AddOp(vm.OP_PUSHT)
	}
	return b.AddOp(vm.OP_PUSHF)
}

// AddData adds a pushdata instruction for a given byte string.
func (b *Builder) AddData(data []byte) *Builder {
	if len(data) > vm.MaxItemSize {
		return b.fail(errors.WithDetailf(ErrBadValue, "pushdata of %d bytes", len(data)))
	}
	return b.AddRawBytes(vm.PushdataBytes(data))
}

// AddRawBytes simply appends the given bytes to the program. (It does
// not introduce a pushdata opcode.)
func (b *Builder) AddRawBytes(data []byte) *Builder {
	if b.err == nil {
		b.program = append(b.program, data...)
	}
	return b
}

// AddOp adds the given opcode to the program. Opcodes that carry an
// inline operand have their own Add methods.
func (b *Builder) AddOp(op vm.Op) *Builder {
	switch op {
	case vm.OP_JMP, vm.OP_JMPIF, vm.OP_JMPIFNOT, vm.OP_CALL,
		vm.OP_APPCALL, vm.OP_TAILCALL, vm.OP_SYSCALL,
		vm.OP_PUSHDATA1, vm.OP_PUSHDATA2, vm.OP_PUSHDATA4:
		return b.fail(errors.WithDetailf(ErrBadValue, "%s needs an operand", op))
	}
	if op >= vm.OP_PUSHBYTES1 && op <= vm.OP_PUSHBYTES75 {
		return b.fail(errors.WithDetailf(ErrBadValue, "%s needs an operand", op))
	}
	return b.AddRawBytes([]byte{byte(op)})
}

// NewJumpTarget allocates a number that can be used as a jump target
// in AddJump and its variants. Call SetJumpTarget to associate the
// number with a program location.
func (b *Builder) NewJumpTarget() int {
	b.jumpCounter++
	return b.jumpCounter
}

// AddJump adds a JMP opcode whose target is the given target
// number. The actual program location of the target does not need to
// be known yet, as long as SetJumpTarget is called before Build.
func (b *Builder) AddJump(target int) *Builder {
	return b.AddJumpOp(vm.OP_JMP, target)
}

// AddJumpIf adds a JMPIF opcode whose target is the given target number.
func (b *Builder) AddJumpIf(target int) *Builder {
	return b.AddJumpOp(vm.OP_JMPIF, target)
}

// AddJumpIfNot adds a JMPIFNOT opcode whose target is the given target number.
func (b *Builder) AddJumpIfNot(target int) *Builder {
	return b.AddJumpOp(vm.OP_JMPIFNOT, target)
}

// AddCall adds a CALL opcode whose target is the given target number.
func (b *Builder) AddCall(target int) *Builder {
	return b.AddJumpOp(vm.OP_CALL, target)
}

// AddJumpOp adds op, which must be JMP, JMPIF, JMPIFNOT or CALL,
// with an offset to be resolved by Build.
func (b *Builder) AddJumpOp(op vm.Op, target int) *Builder {
	switch op {
	case vm.OP_JMP, vm.OP_JMPIF, vm.OP_JMPIFNOT, vm.OP_CALL:
	default:
		return b.fail(errors.WithDetailf(ErrBadJumpOp, "%s", op))
	}
	if b.err != nil {
		return b
	}
	b.jumpPlaceholders[target] = append(b.jumpPlaceholders[target], len(b.program))
	return b.AddRawBytes([]byte{byte(op), 0, 0})
}

// SetJumpTarget associates the given jump-target number with the
// current position in the program - namely, the program's length,
// such that the first instruction executed by a jump using this
// target will be whatever instruction is added next. It is legal for
// SetJumpTarget to be called at the end of the program, causing jumps
// using that target to fall off the end. There must be a call to
// SetJumpTarget for every jump target used before any call to Build.
func (b *Builder) SetJumpTarget(target int) *Builder {
	b.jumpAddr[target] = len(b.program)
	return b
}

// AddAppCall adds an APPCALL, or a TAILCALL if tail is set, to the
// script with the given hash. A hash of 20 zero bytes makes the
// engine take the hash from the evaluation stack instead.
func (b *Builder) AddAppCall(hash []byte, tail bool) *Builder {
	if len(hash) != vm.HashLen {
		return b.fail(errors.WithDetailf(ErrBadHashLength, "%d bytes", len(hash)))
	}
	op := vm.OP_APPCALL
	if tail {
		op = vm.OP_TAILCALL
	}
	return b.AddRawBytes(append([]byte{byte(op)}, hash...))
}

// AddSysCall adds a SYSCALL invoking the named host service.
func (b *Builder) AddSysCall(name string) *Builder {
	if len(name) == 0 || len(name) > vm.MaxSysCallLen {
		return b.fail(errors.WithDetailf(ErrBadSysCall, "name of %d bytes", len(name)))
	}
	return b.AddRawBytes(append([]byte{byte(vm.OP_SYSCALL), byte(len(name))}, name...))
}

// Build produces the bytecode of the program. It first resolves any
// jumps in the program by filling in the offsets of their
// targets. This requires SetJumpTarget to be called prior to Build
// for each jump target used. If any target's address hasn't been set
// in this way, this function produces ErrUnresolvedJump; a target
// more than 32767 bytes away produces ErrJumpRange. Any error
// recorded by an Add method is returned first.
func (b *Builder) Build() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	for target, placeholders := range b.jumpPlaceholders {
		addr, ok := b.jumpAddr[target]
		if !ok {
			return nil, errors.Wrapf(ErrUnresolvedJump, "target %d", target)
		}
		for _, pos := range placeholders {
			offset := addr - pos
			if offset < math.MinInt16 || offset > math.MaxInt16 {
				return nil, errors.WithDetailf(ErrJumpRange, "target %d is %d bytes away", target, offset)
			}
			binary.LittleEndian.PutUint16(b.program[pos+1:pos+3], uint16(int16(offset)))
		}
	}
	return b.program, nil
}
