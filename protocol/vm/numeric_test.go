package vm

import (
	"bytes"
	"math/big"
	"testing"
)

func TestNumericOps(t *testing.T) {
	// 32 bytes is the largest operand; 33 is too big.
	maxOperand := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(1))
	tooBig := bytes.Repeat([]byte{1}, MaxSizeForBigInteger+1)

	runOpCases(t, []opCase{{
		op:    OP_INC,
		stack: items(2),
		want:  items(3),
	}, {
		op:    OP_INC,
		stack: items("\x7f"),
		want:  items(128),
	}, {
		op:      OP_INC,
		stack:   items(maxOperand),
		wantErr: ErrRange,
	}, {
		op:      OP_INC,
		stack:   items(tooBig),
		wantErr: ErrRange,
	}, {
		op:      OP_INC,
		stack:   items(NewArray(nil)),
		wantErr: ErrTypeMismatch,
	}, {
		op:      OP_INC,
		wantErr: ErrEvalStackUnderflow,
	}, {
		op:    OP_DEC,
		stack: items(0),
		want:  items(-1),
	}, {
		op:    OP_SIGN,
		stack: items(-7),
		want:  items(-1),
	}, {
		op:    OP_SIGN,
		stack: items(""),
		want:  items(0),
	}, {
		op:    OP_NEGATE,
		stack: items(2),
		want:  items(-2),
	}, {
		op:    OP_ABS,
		stack: items(-2),
		want:  items(2),
	}, {
		op:    OP_NOT,
		stack: items(2),
		want:  items(false),
	}, {
		op:    OP_NOT,
		stack: items([]byte{0, 0}),
		want:  items(true),
	}, {
		op:    OP_NOT,
		stack: items(NewArray(nil)),
		want:  items(false),
	}, {
		op:    OP_NZ,
		stack: items([]byte{0, 0}),
		want:  items(false),
	}, {
		op:    OP_NZ,
		stack: items(-3),
		want:  items(true),
	}, {
		op:    OP_ADD,
		stack: items(2, 1),
		want:  items(3),
	}, {
		op:    OP_ADD,
		stack: items(true, "\x02"),
		want:  items(3),
	}, {
		op:      OP_ADD,
		stack:   items(maxOperand, maxOperand),
		wantErr: ErrRange,
	}, {
		op:      OP_ADD,
		stack:   items(1),
		wantErr: ErrEvalStackUnderflow,
	}, {
		op:    OP_SUB,
		stack: items(2, 3),
		want:  items(-1),
	}, {
		op:    OP_MUL,
		stack: items(-2, 3),
		want:  items(-6),
	}, {
		op:    OP_DIV,
		stack: items(-7, 2),
		want:  items(-3),
	}, {
		op:      OP_DIV,
		stack:   items(1, 0),
		wantErr: ErrDivZero,
	}, {
		op:    OP_MOD,
		stack: items(-7, 2),
		want:  items(-1),
	}, {
		op:    OP_MOD,
		stack: items(7, -2),
		want:  items(1),
	}, {
		op:      OP_MOD,
		stack:   items(7, 0),
		wantErr: ErrDivZero,
	}, {
		op:    OP_SHL,
		stack: items(1, 3),
		want:  items(8),
	}, {
		op:    OP_SHL,
		stack: items(8, -2),
		want:  items(2),
	}, {
		op:    OP_SHL,
		stack: items("abc", 0),
		want:  items("abc"),
	}, {
		op:      OP_SHL,
		stack:   items(0),
		wantErr: ErrEvalStackUnderflow,
	}, {
		op:      OP_SHL,
		stack:   items(NewArray(nil), 0),
		wantErr: ErrTypeMismatch,
	}, {
		op:      OP_SHR,
		stack:   items(0),
		wantErr: ErrEvalStackUnderflow,
	}, {
		op:      OP_SHR,
		stack:   items(NewStruct(nil), 0),
		wantErr: ErrTypeMismatch,
	}, {
		op:      OP_SHL,
		stack:   items(1, 257),
		wantErr: ErrRange,
	}, {
		op:      OP_SHL,
		stack:   items(1, 256),
		wantErr: ErrRange,
	}, {
		op:    OP_SHR,
		stack: items(-8, 1),
		want:  items(-4),
	}, {
		op:    OP_SHR,
		stack: items(1, -4),
		want:  items(16),
	}, {
		op:    OP_BOOLAND,
		stack: items(1, 0),
		want:  items(false),
	}, {
		op:    OP_BOOLAND,
		stack: items("a", NewStruct(nil)),
		want:  items(true),
	}, {
		op:    OP_BOOLOR,
		stack: items(0, 0),
		want:  items(false),
	}, {
		op:    OP_BOOLOR,
		stack: items(0, 1),
		want:  items(true),
	}, {
		op:    OP_NUMEQUAL,
		stack: items(1, true),
		want:  items(true),
	}, {
		op:    OP_NUMEQUAL,
		stack: items(1, []byte{1, 0}),
		want:  items(true),
	}, {
		op:    OP_NUMNOTEQUAL,
		stack: items(1, 2),
		want:  items(true),
	}, {
		op:    OP_LT,
		stack: items(-1, 1),
		want:  items(true),
	}, {
		op:    OP_GT,
		stack: items(-1, 1),
		want:  items(false),
	}, {
		op:    OP_LTE,
		stack: items(1, 1),
		want:  items(true),
	}, {
		op:    OP_GTE,
		stack: items(0, 1),
		want:  items(false),
	}, {
		op:    OP_MIN,
		stack: items(3, -4),
		want:  items(-4),
	}, {
		op:    OP_MAX,
		stack: items(3, -4),
		want:  items(3),
	}, {
		op:    OP_WITHIN,
		stack: items(1, 1, 2),
		want:  items(true),
	}, {
		op:    OP_WITHIN,
		stack: items(2, 1, 2),
		want:  items(false),
	}, {
		op:    OP_WITHIN,
		stack: items(0, 1, 2),
		want:  items(false),
	}, {
		op:      OP_WITHIN,
		stack:   items(1, 2),
		wantErr: ErrEvalStackUnderflow,
	}})
}

func TestBitwiseOps(t *testing.T) {
	s := NewStruct(items(1, "a"))
	a := NewArray(items(1))

	runOpCases(t, []opCase{{
		op:    OP_INVERT,
		stack: items(0),
		want:  items(-1),
	}, {
		op:    OP_INVERT,
		stack: items(5),
		want:  items(-6),
	}, {
		op:    OP_AND,
		stack: items(6, 3),
		want:  items(2),
	}, {
		op:    OP_AND,
		stack: items(-1, 0x7f),
		want:  items(0x7f),
	}, {
		op:    OP_OR,
		stack: items(6, 3),
		want:  items(7),
	}, {
		op:    OP_XOR,
		stack: items(6, 3),
		want:  items(5),
	}, {
		op:      OP_XOR,
		stack:   items(6),
		wantErr: ErrEvalStackUnderflow,
	}, {
		op:    OP_EQUAL,
		stack: items(1, true),
		want:  items(true),
	}, {
		op:    OP_EQUAL,
		stack: items(1, []byte{1}),
		want:  items(true),
	}, {
		op:    OP_EQUAL,
		stack: items(1, []byte{1, 0}),
		want:  items(false),
	}, {
		op:    OP_EQUAL,
		stack: items(false, 0),
		want:  items(true),
	}, {
		op:    OP_EQUAL,
		stack: items(s, NewStruct(items(1, "a"))),
		want:  items(true),
	}, {
		op:    OP_EQUAL,
		stack: items(NewInterop(hostObject{[]int{1}}), NewInterop(hostObject{[]int{1}})),
		want:  items(false),
	}, {
		op:    OP_EQUAL,
		stack: items(a, NewArray(items(1))),
		want:  items(false),
	}, {
		op:    OP_EQUAL,
		stack: items(a, a),
		want:  items(true),
	}, {
		op:    OP_EQUAL,
		stack: items(a, 1),
		want:  items(false),
	}})
}
