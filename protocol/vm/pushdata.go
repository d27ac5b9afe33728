package vm

import (
	"encoding/binary"
	"math/big"
)

func opPush0(e *Engine) error {
	e.eval.Push(ByteArray{})
	return nil
}

func opPushdata(e *Engine) error {
	if len(e.data) > MaxItemSize {
		return ErrItemTooBig
	}
	e.eval.Push(NewByteArray(e.data))
	return nil
}

func opPushM1(e *Engine) error {
	e.eval.Push(NewIntegerInt64(-1))
	return nil
}

func opPushN(e *Engine) error {
	e.eval.Push(NewIntegerInt64(int64(e.op-OP_PUSH1) + 1))
	return nil
}

// PushdataBytes returns the shortest instruction that pushes in.
func PushdataBytes(in []byte) []byte {
	l := len(in)
	if l == 0 {
		return []byte{byte(OP_PUSH0)}
	}
	if l <= int(OP_PUSHBYTES75) {
		return append([]byte{byte(l)}, in...)
	}
	if l < 1<<8 {
		return append([]byte{byte(OP_PUSHDATA1), uint8(l)}, in...)
	}
	if l < 1<<16 {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(l))
		return append([]byte{byte(OP_PUSHDATA2), b[0], b[1]}, in...)
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(l))
	return append([]byte{byte(OP_PUSHDATA4), b[0], b[1], b[2], b[3]}, in...)
}

// PushdataInt returns the shortest instruction that pushes n.
// The values -1 through 16 have single-byte opcodes; anything else
// is pushed as its byte form.
func PushdataInt(n *big.Int) []byte {
	if n.IsInt64() {
		return PushdataInt64(n.Int64())
	}
	return PushdataBytes(BigIntBytes(n))
}

func PushdataInt64(n int64) []byte {
	if n == -1 {
		return []byte{byte(OP_PUSHM1)}
	}
	if n == 0 {
		return []byte{byte(OP_PUSH0)}
	}
	if n >= 1 && n <= 16 {
		return []byte{uint8(OP_PUSH1) + uint8(n) - 1}
	}
	return PushdataBytes(Int64Bytes(n))
}
