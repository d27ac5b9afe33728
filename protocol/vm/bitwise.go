package vm

import "math/big"

func opInvert(e *Engine) error {
	x, err := e.peekBigInt(0)
	if err != nil {
		return err
	}
	return e.replace(1, NewInteger(x.Not(x)))
}

func opAnd(e *Engine) error {
	return binaryOp(e, func(x, y *big.Int) (*big.Int, error) {
		return x.And(x, y), nil
	})
}

func opOr(e *Engine) error {
	return binaryOp(e, func(x, y *big.Int) (*big.Int, error) {
		return x.Or(x, y), nil
	})
}

func opXor(e *Engine) error {
	return binaryOp(e, func(x, y *big.Int) (*big.Int, error) {
		return x.Xor(x, y), nil
	})
}

// opEqual compares two primitive items by their byte forms, so that
// the Integer 1, the Boolean true and the ByteArray 0x01 are all
// equal. Containers and interop handles compare with Equal.
func opEqual(e *Engine) error {
	b, err := e.eval.Peek(0)
	if err != nil {
		return err
	}
	a, err := e.eval.Peek(1)
	if err != nil {
		return err
	}
	return e.replace(2, NewBoolean(itemsEqual(a, b)))
}

func itemsEqual(a, b StackItem) bool {
	if isPrimitive(a) && isPrimitive(b) {
		ab, _ := a.Bytes()
		bb, _ := b.Bytes()
		return string(ab) == string(bb)
	}
	return a.Equal(b)
}
