package vm

import (
	"math/big"

	"github.com/vardthomas/neo-vm/errors"
)

// intResult checks that x fits the integer size limit.
func intResult(x *big.Int) (StackItem, error) {
	if b := BigIntBytes(x); len(b) > MaxSizeForBigInteger {
		return nil, errors.WithDetailf(ErrRange, "result of %d bytes", len(b))
	}
	return NewInteger(x), nil
}

func unaryOp(e *Engine, f func(x *big.Int) *big.Int) error {
	x, err := e.peekBigInt(0)
	if err != nil {
		return err
	}
	res, err := intResult(f(x))
	if err != nil {
		return err
	}
	return e.replace(1, res)
}

// binaryOp pops y, then x, and pushes f(x, y).
func binaryOp(e *Engine, f func(x, y *big.Int) (*big.Int, error)) error {
	y, err := e.peekBigInt(0)
	if err != nil {
		return err
	}
	x, err := e.peekBigInt(1)
	if err != nil {
		return err
	}
	z, err := f(x, y)
	if err != nil {
		return err
	}
	res, err := intResult(z)
	if err != nil {
		return err
	}
	return e.replace(2, res)
}

// compareOp pops y, then x, and pushes f(x.Cmp(y)).
func compareOp(e *Engine, f func(cmp int) bool) error {
	y, err := e.peekBigInt(0)
	if err != nil {
		return err
	}
	x, err := e.peekBigInt(1)
	if err != nil {
		return err
	}
	return e.replace(2, NewBoolean(f(x.Cmp(y))))
}

func opInc(e *Engine) error {
	return unaryOp(e, func(x *big.Int) *big.Int { return x.Add(x, big.NewInt(1)) })
}

func opDec(e *Engine) error {
	return unaryOp(e, func(x *big.Int) *big.Int { return x.Sub(x, big.NewInt(1)) })
}

func opSign(e *Engine) error {
	return unaryOp(e, func(x *big.Int) *big.Int { return big.NewInt(int64(x.Sign())) })
}

func opNegate(e *Engine) error {
	return unaryOp(e, func(x *big.Int) *big.Int { return x.Neg(x) })
}

func opAbs(e *Engine) error {
	return unaryOp(e, func(x *big.Int) *big.Int { return x.Abs(x) })
}

func opNot(e *Engine) error {
	b, err := e.peekBool(0)
	if err != nil {
		return err
	}
	return e.replace(1, NewBoolean(!b))
}

func opNz(e *Engine) error {
	x, err := e.peekBigInt(0)
	if err != nil {
		return err
	}
	return e.replace(1, NewBoolean(x.Sign() != 0))
}

func opAdd(e *Engine) error {
	return binaryOp(e, func(x, y *big.Int) (*big.Int, error) {
		return x.Add(x, y), nil
	})
}

func opSub(e *Engine) error {
	return binaryOp(e, func(x, y *big.Int) (*big.Int, error) {
		return x.Sub(x, y), nil
	})
}

func opMul(e *Engine) error {
	return binaryOp(e, func(x, y *big.Int) (*big.Int, error) {
		return x.Mul(x, y), nil
	})
}

// opDiv truncates toward zero.
func opDiv(e *Engine) error {
	return binaryOp(e, func(x, y *big.Int) (*big.Int, error) {
		if y.Sign() == 0 {
			return nil, ErrDivZero
		}
		return x.Quo(x, y), nil
	})
}

// opMod takes the sign of the dividend.
func opMod(e *Engine) error {
	return binaryOp(e, func(x, y *big.Int) (*big.Int, error) {
		if y.Sign() == 0 {
			return nil, ErrDivZero
		}
		return x.Rem(x, y), nil
	})
}

func opShl(e *Engine) error {
	return shiftOp(e, false)
}

func opShr(e *Engine) error {
	return shiftOp(e, true)
}

// shiftOp pops the shift amount, then x. A negative amount shifts
// the other way. Shifting by zero leaves x on the stack unchanged.
func shiftOp(e *Engine, right bool) error {
	n, err := e.peekInt(0)
	if err != nil {
		return err
	}
	if n < -maxShift || n > maxShift {
		return errors.WithDetailf(ErrRange, "shift by %d", n)
	}
	if n == 0 {
		_, err = e.peekBigInt(1)
		if err != nil {
			return err
		}
		return e.eval.Drop(1)
	}
	if right {
		n = -n
	}
	return binaryOp(e, func(x, _ *big.Int) (*big.Int, error) {
		if n < 0 {
			return x.Rsh(x, uint(-n)), nil
		}
		return x.Lsh(x, uint(n)), nil
	})
}

func opBoolAnd(e *Engine) error {
	return boolOp(e, func(a, b bool) bool { return a && b })
}

func opBoolOr(e *Engine) error {
	return boolOp(e, func(a, b bool) bool { return a || b })
}

func boolOp(e *Engine, f func(a, b bool) bool) error {
	b, err := e.peekBool(0)
	if err != nil {
		return err
	}
	a, err := e.peekBool(1)
	if err != nil {
		return err
	}
	return e.replace(2, NewBoolean(f(a, b)))
}

func opNumEqual(e *Engine) error {
	return compareOp(e, func(cmp int) bool { return cmp == 0 })
}

func opNumNotEqual(e *Engine) error {
	return compareOp(e, func(cmp int) bool { return cmp != 0 })
}

func opLessThan(e *Engine) error {
	return compareOp(e, func(cmp int) bool { return cmp < 0 })
}

func opGreaterThan(e *Engine) error {
	return compareOp(e, func(cmp int) bool { return cmp > 0 })
}

func opLessThanOrEqual(e *Engine) error {
	return compareOp(e, func(cmp int) bool { return cmp <= 0 })
}

func opGreaterThanOrEqual(e *Engine) error {
	return compareOp(e, func(cmp int) bool { return cmp >= 0 })
}

func opMin(e *Engine) error {
	return binaryOp(e, func(x, y *big.Int) (*big.Int, error) {
		if x.Cmp(y) <= 0 {
			return x, nil
		}
		return y, nil
	})
}

func opMax(e *Engine) error {
	return binaryOp(e, func(x, y *big.Int) (*big.Int, error) {
		if x.Cmp(y) >= 0 {
			return x, nil
		}
		return y, nil
	})
}

// opWithin pops hi, lo and x, and pushes lo <= x < hi.
func opWithin(e *Engine) error {
	hi, err := e.peekBigInt(0)
	if err != nil {
		return err
	}
	lo, err := e.peekBigInt(1)
	if err != nil {
		return err
	}
	x, err := e.peekBigInt(2)
	if err != nil {
		return err
	}
	return e.replace(3, NewBoolean(lo.Cmp(x) <= 0 && x.Cmp(hi) < 0))
}
