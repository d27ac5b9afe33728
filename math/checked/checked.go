// Package checked adds integers and reports overflow instead of
// wrapping around.
package checked

import "github.com/vardthomas/neo-vm/errors"

var ErrOverflow = errors.New("arithmetic overflow")

// Signed is the set of signed integer types.
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Add returns a + b and true, or zero and false if the sum does not
// fit in T.
func Add[T Signed](a, b T) (T, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

// AddAll returns the sum of ns, or ErrOverflow if any partial sum
// does not fit in T.
func AddAll[T Signed](ns ...T) (T, error) {
	var sum T
	for _, n := range ns {
		var ok bool
		sum, ok = Add(sum, n)
		if !ok {
			return 0, errors.WithDetailf(ErrOverflow, "adding %d", n)
		}
	}
	return sum, nil
}
