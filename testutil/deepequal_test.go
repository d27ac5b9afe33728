package testutil

import (
	"math/big"
	"testing"
)

func TestDeepEqual(t *testing.T) {
	type item struct {
		n    *big.Int
		kids []*item
	}
	cyclic := func() *item {
		it := &item{n: big.NewInt(1)}
		it.kids = []*item{it}
		return it
	}
	var nilMap map[string]int

	cases := []struct {
		a, b interface{}
		want bool
	}{
		{1, 1, true},
		{1, 2, false},
		{nil, nil, true},
		{nil, []byte{}, true},
		{nil, []byte{1}, false},
		{[]byte{1}, []byte{1}, true},
		{[]byte{1}, []byte{1, 2}, false},
		{[]byte{1}, []string{"1"}, false},
		{[3]byte{1}, [3]byte{1, 0, 0}, true},
		{[3]byte{}, [4]byte{}, false},
		{nilMap, map[string]int{}, true},
		{map[string]int{"a": 1}, map[string]int{"a": 1}, true},
		{map[string]int{"a": 1}, map[string]int{"b": 1}, false},
		{"foo", nil, false},
		{new(big.Int), new(big.Int).Sub(big.NewInt(1), big.NewInt(1)), true},
		{big.NewInt(-3), big.NewInt(3), false},
		{item{n: big.NewInt(2)}, item{n: big.NewInt(2), kids: []*item{}}, true},
		{item{n: big.NewInt(2)}, item{}, false},
		{cyclic(), cyclic(), true},
	}

	for i, c := range cases {
		got := DeepEqual(c.a, c.b)
		if got != c.want {
			t.Errorf("case %d: DeepEqual(%v, %v) = %v want %v", i, c.a, c.b, got, c.want)
		}
	}
}
