package vm

import (
	"math"
	"math/big"
)

var trueBytes = []byte{1}

// BoolBytes returns the byte form of a boolean:
// 0x01 for true and the empty string for false.
func BoolBytes(b bool) []byte {
	if !b {
		return []byte{}
	}
	return append([]byte{}, trueBytes...)
}

// AsBool reports whether bytes contains at least one nonzero byte.
func AsBool(bytes []byte) bool {
	for _, b := range bytes {
		if b != 0 {
			return true
		}
	}
	return false
}

// BigIntBytes encodes n as minimal little-endian two's complement.
// Zero encodes as the empty string.
func BigIntBytes(n *big.Int) []byte {
	switch n.Sign() {
	case 0:
		return []byte{}
	case 1:
		b := reverse(n.Bytes())
		if b[len(b)-1]&0x80 != 0 {
			b = append(b, 0)
		}
		return b
	}

	// For negative n, the two's complement of n is the bitwise
	// inverse of |n|-1.
	x := new(big.Int).Neg(n)
	x.Sub(x, big.NewInt(1))
	b := reverse(x.Bytes())
	for i := range b {
		b[i] = ^b[i]
	}
	if len(b) == 0 || b[len(b)-1]&0x80 == 0 {
		b = append(b, 0xff)
	}
	return b
}

// AsBigInt decodes little-endian two's complement bytes of any
// length. The empty string decodes to zero.
func AsBigInt(b []byte) *big.Int {
	n := new(big.Int)
	if len(b) == 0 {
		return n
	}
	n.SetBytes(reverse(b))
	if b[len(b)-1]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(8*len(b))))
	}
	return n
}

// Int64Bytes is BigIntBytes for an int64.
func Int64Bytes(n int64) []byte {
	return BigIntBytes(big.NewInt(n))
}

// AsInt64 decodes b and returns ErrBadValue if the result does not
// fit in an int64.
func AsInt64(b []byte) (int64, error) {
	n := AsBigInt(b)
	if !n.IsInt64() {
		return 0, ErrBadValue
	}
	return n.Int64(), nil
}

// bigToInt converts n to an int, failing with ErrRange when it
// does not fit in 32 bits. Indexes, counts and shift amounts
// all go through here.
func bigToInt(n *big.Int) (int, error) {
	if !n.IsInt64() {
		return 0, ErrRange
	}
	v := n.Int64()
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, ErrRange
	}
	return int(v), nil
}

// reverse returns a reversed copy of b.
func reverse(b []byte) []byte {
	r := make([]byte, len(b))
	for i, c := range b {
		r[len(b)-1-i] = c
	}
	return r
}
