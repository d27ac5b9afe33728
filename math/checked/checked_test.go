package checked

import (
	"math"
	"testing"

	"github.com/vardthomas/neo-vm/errors"
)

func TestAdd(t *testing.T) {
	cases := []struct {
		a, b, want int64
		wantOk     bool
	}{
		{2, 3, 5, true},
		{2, -3, -1, true},
		{-2, -3, -5, true},
		{math.MaxInt64, 0, math.MaxInt64, true},
		{math.MaxInt64, 1, 0, false},
		{math.MinInt64, math.MinInt64, 0, false},
		{math.MinInt64, -1, 0, false},
		{math.MinInt64, math.MaxInt64, -1, true},
	}

	for _, c := range cases {
		got, gotOk := Add(c.a, c.b)
		if got != c.want || gotOk != c.wantOk {
			t.Errorf("Add(%d, %d) = %d, %v want %d, %v", c.a, c.b, got, gotOk, c.want, c.wantOk)
		}
	}

	if _, ok := Add[int8](100, 28); ok {
		t.Error("Add[int8](100, 28) did not overflow")
	}
}

func TestAddAll(t *testing.T) {
	got, err := AddAll(1, 2, 3)
	if err != nil || got != 6 {
		t.Errorf("AddAll(1, 2, 3) = %d, %v", got, err)
	}
	_, err = AddAll(math.MaxInt32, 1, -5)
	if err != nil {
		t.Errorf("AddAll(int) overflowed: %v", err)
	}
	_, err = AddAll[int32](math.MaxInt32, 1, -5)
	if errors.Root(err) != ErrOverflow {
		t.Errorf("AddAll[int32] err = %v want %v", err, ErrOverflow)
	}
}
