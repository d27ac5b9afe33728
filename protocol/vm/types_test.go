package vm

import (
	"bytes"
	"math"
	"math/big"
	"testing"
)

func TestBoolBytes(t *testing.T) {
	got := BoolBytes(true)
	want := []byte{1}
	if !bytes.Equal(got, want) {
		t.Errorf("BoolBytes(t) = %x want %x", got, want)
	}

	got = BoolBytes(false)
	want = []byte{}
	if !bytes.Equal(got, want) {
		t.Errorf("BoolBytes(f) = %x want %x", got, want)
	}
}

func TestAsBool(t *testing.T) {
	cases := []struct {
		data []byte
		want bool
	}{
		{[]byte{0, 0, 0, 0}, false},
		{[]byte{0}, false},
		{[]byte{}, false},
		{[]byte{1}, true},
		{[]byte{1, 1, 1, 1}, true},
		{[]byte{0, 0, 0, 1}, true},
		{[]byte{1, 0, 0, 0}, true},
		{[]byte{2}, true},
	}

	for _, c := range cases {
		got := AsBool(c.data)

		if got != c.want {
			t.Errorf("AsBool(%x) = %v want %v", c.data, got, c.want)
		}
	}
}

func TestInt64(t *testing.T) {
	cases := []struct {
		num  int64
		data []byte
	}{
		{0, []byte{}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x00}},
		{255, []byte{0xff, 0x00}},
		{256, []byte{0x00, 0x01}},
		{1 << 16, []byte{0x00, 0x00, 0x01}},
		{-1, []byte{0xff}},
		{-2, []byte{0xfe}},
		{-128, []byte{0x80}},
		{-129, []byte{0x7f, 0xff}},
		{-256, []byte{0x00, 0xff}},
		{math.MaxInt64, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}},
		{math.MinInt64, []byte{0, 0, 0, 0, 0, 0, 0, 0x80}},
	}

	for _, c := range cases {
		gotData := Int64Bytes(c.num)

		if !bytes.Equal(gotData, c.data) {
			t.Errorf("Int64Bytes(%d) = %x want %x", c.num, gotData, c.data)
		}

		gotNum, _ := AsInt64(c.data)

		if gotNum != c.num {
			t.Errorf("AsInt64(%x) = %d want %d", c.data, gotNum, c.num)
		}
	}

	data := []byte{1, 1, 1, 1, 1, 1, 1, 1, 1}
	_, err := AsInt64(data)
	want := ErrBadValue
	if err != want {
		t.Errorf("AsInt64(%x) = %v want %v", data, err, want)
	}
}

// Non-minimal encodings decode to the same value as the minimal one.
func TestAsBigIntPadding(t *testing.T) {
	cases := []struct {
		data []byte
		want int64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x00, 0x00}, 0},
		{[]byte{0x01, 0x00, 0x00}, 1},
		{[]byte{0xff, 0xff}, -1},
		{[]byte{0x80, 0xff, 0xff}, -128},
	}
	for _, c := range cases {
		got := AsBigInt(c.data)
		if got.Cmp(big.NewInt(c.want)) != 0 {
			t.Errorf("AsBigInt(%x) = %s want %d", c.data, got, c.want)
		}
	}
}

func TestBigIntRoundTrip(t *testing.T) {
	for _, s := range []string{
		"0", "1", "-1", "340282366920938463463374607431768211456",
		"-340282366920938463463374607431768211457",
		"57896044618658097711785492504343953926634992332820282019728792003956564819967",
	} {
		n, _ := new(big.Int).SetString(s, 10)
		b := BigIntBytes(n)
		if got := AsBigInt(b); got.Cmp(n) != 0 {
			t.Errorf("AsBigInt(BigIntBytes(%s)) = %s", s, got)
		}
		if len(b) > 0 && n.Sign() != 0 {
			// minimal: dropping the top byte changes the value
			if got := AsBigInt(b[:len(b)-1]); got.Cmp(n) == 0 {
				t.Errorf("BigIntBytes(%s) = %x is not minimal", s, b)
			}
		}
	}
}
