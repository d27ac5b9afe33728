package vm

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/big"
	"reflect"
	"strings"
)

// ItemType identifies the variant of a StackItem.
type ItemType uint8

const (
	IntegerType ItemType = iota
	BooleanType
	ByteArrayType
	ArrayType
	StructType
	InteropType
)

var itemTypeNames = [...]string{
	IntegerType:   "Integer",
	BooleanType:   "Boolean",
	ByteArrayType: "ByteArray",
	ArrayType:     "Array",
	StructType:    "Struct",
	InteropType:   "InteropInterface",
}

func (t ItemType) String() string {
	if int(t) < len(itemTypeNames) {
		return itemTypeNames[t]
	}
	return fmt.Sprintf("ItemType(%d)", uint8(t))
}

// StackItem is a value held on the evaluation or alt stack.
//
// The set of implementations is closed: *Integer, Boolean,
// ByteArray, *Array, *Struct and *InteropInterface. Conversions
// that a variant does not support fail with ErrTypeMismatch.
type StackItem interface {
	Type() ItemType

	// Bytes returns the canonical byte form of a primitive item.
	Bytes() ([]byte, error)

	// BigInt interprets the item as an integer.
	BigInt() (*big.Int, error)

	// Bool reports whether the item counts as true. For
	// primitive items, this is true if the byte form has at
	// least one nonzero byte. Containers and interop handles
	// are always true.
	Bool() bool

	// Items returns the elements of an Array or Struct. The
	// returned slice is the container's own storage.
	Items() ([]StackItem, error)

	Equal(StackItem) bool
	String() string
}

// Integer is an arbitrary-precision signed integer.
type Integer struct {
	value *big.Int
}

// NewInteger returns an Integer holding a copy of n.
func NewInteger(n *big.Int) *Integer {
	return &Integer{value: new(big.Int).Set(n)}
}

// NewIntegerInt64 returns an Integer holding n.
func NewIntegerInt64(n int64) *Integer {
	return &Integer{value: big.NewInt(n)}
}

func (i *Integer) Type() ItemType              { return IntegerType }
func (i *Integer) Bytes() ([]byte, error)      { return BigIntBytes(i.value), nil }
func (i *Integer) BigInt() (*big.Int, error)   { return new(big.Int).Set(i.value), nil }
func (i *Integer) Bool() bool                  { return i.value.Sign() != 0 }
func (i *Integer) Items() ([]StackItem, error) { return nil, ErrTypeMismatch }
func (i *Integer) String() string              { return i.value.String() }

func (i *Integer) Equal(other StackItem) bool {
	o, ok := other.(*Integer)
	return ok && i.value.Cmp(o.value) == 0
}

// Boolean is a truth value.
type Boolean bool

// NewBoolean returns a Boolean holding b.
func NewBoolean(b bool) Boolean {
	return Boolean(b)
}

func (b Boolean) Type() ItemType              { return BooleanType }
func (b Boolean) Bytes() ([]byte, error)      { return BoolBytes(bool(b)), nil }
func (b Boolean) Bool() bool                  { return bool(b) }
func (b Boolean) Items() ([]StackItem, error) { return nil, ErrTypeMismatch }

func (b Boolean) BigInt() (*big.Int, error) {
	if b {
		return big.NewInt(1), nil
	}
	return new(big.Int), nil
}

func (b Boolean) Equal(other StackItem) bool {
	o, ok := other.(Boolean)
	return ok && o == b
}

func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// ByteArray is a raw byte string.
type ByteArray []byte

// NewByteArray returns a ByteArray holding a copy of b.
func NewByteArray(b []byte) ByteArray {
	return append(ByteArray{}, b...)
}

func (a ByteArray) Type() ItemType              { return ByteArrayType }
func (a ByteArray) Bytes() ([]byte, error)      { return []byte(a), nil }
func (a ByteArray) BigInt() (*big.Int, error)   { return AsBigInt(a), nil }
func (a ByteArray) Bool() bool                  { return AsBool(a) }
func (a ByteArray) Items() ([]StackItem, error) { return nil, ErrTypeMismatch }
func (a ByteArray) String() string              { return "0x" + hex.EncodeToString(a) }

func (a ByteArray) Equal(other StackItem) bool {
	o, ok := other.(ByteArray)
	return ok && bytes.Equal(a, o)
}

// Array is an ordered, mutable sequence of items with reference
// semantics: duplicating an Array yields another reference to the
// same storage.
type Array struct {
	items []StackItem
}

// NewArray returns an Array holding the given items.
func NewArray(items []StackItem) *Array {
	return &Array{items: append([]StackItem{}, items...)}
}

func (a *Array) Type() ItemType              { return ArrayType }
func (a *Array) Bytes() ([]byte, error)      { return nil, ErrTypeMismatch }
func (a *Array) BigInt() (*big.Int, error)   { return nil, ErrTypeMismatch }
func (a *Array) Bool() bool                  { return true }
func (a *Array) Items() ([]StackItem, error) { return a.items, nil }
func (a *Array) String() string              { return containerString(a) }

// Equal reports whether other is the same Array.
func (a *Array) Equal(other StackItem) bool {
	o, ok := other.(*Array)
	return ok && o == a
}

// Struct is an ordered sequence of items with value semantics:
// duplicating a Struct copies it (see Clone).
type Struct struct {
	items []StackItem
}

// NewStruct returns a Struct holding the given items.
func NewStruct(items []StackItem) *Struct {
	return &Struct{items: append([]StackItem{}, items...)}
}

func (s *Struct) Type() ItemType              { return StructType }
func (s *Struct) Bytes() ([]byte, error)      { return nil, ErrTypeMismatch }
func (s *Struct) BigInt() (*big.Int, error)   { return nil, ErrTypeMismatch }
func (s *Struct) Bool() bool                  { return true }
func (s *Struct) Items() ([]StackItem, error) { return s.items, nil }
func (s *Struct) String() string              { return containerString(s) }

// Equal reports whether other is a Struct with pairwise equal
// elements.
func (s *Struct) Equal(other StackItem) bool {
	o, ok := other.(*Struct)
	if !ok {
		return false
	}
	if o == s {
		return true
	}
	if len(o.items) != len(s.items) {
		return false
	}
	for i := range s.items {
		if !s.items[i].Equal(o.items[i]) {
			return false
		}
	}
	return true
}

// Clone returns a copy of s. Nested Structs are cloned as well;
// every other element is shared.
func (s *Struct) Clone() *Struct {
	items := make([]StackItem, len(s.items))
	for i, item := range s.items {
		items[i] = dupItem(item)
	}
	return &Struct{items: items}
}

// InteropInterface is an opaque handle to a host object.
// Scripts cannot inspect it; host code extracts the object
// with Interface.
type InteropInterface struct {
	value interface{}
}

// NewInterop wraps a host object.
func NewInterop(v interface{}) *InteropInterface {
	return &InteropInterface{value: v}
}

func (i *InteropInterface) Type() ItemType              { return InteropType }
func (i *InteropInterface) Bytes() ([]byte, error)      { return nil, ErrTypeMismatch }
func (i *InteropInterface) BigInt() (*big.Int, error)   { return nil, ErrTypeMismatch }
func (i *InteropInterface) Bool() bool                  { return true }
func (i *InteropInterface) Items() ([]StackItem, error) { return nil, ErrTypeMismatch }
func (i *InteropInterface) String() string              { return fmt.Sprintf("<interop %T>", i.value) }

// Equal reports whether other wraps the same host object. Host
// objects that cannot be compared, such as slices or structs holding
// them, are equal only to their own handle.
func (i *InteropInterface) Equal(other StackItem) bool {
	o, ok := other.(*InteropInterface)
	if !ok {
		return false
	}
	if o == i {
		return true
	}
	if i.value == nil || o.value == nil {
		return i.value == nil && o.value == nil
	}
	vi, vo := reflect.ValueOf(i.value), reflect.ValueOf(o.value)
	if vi.Type() != vo.Type() || !vi.Comparable() || !vo.Comparable() {
		return false
	}
	return i.value == o.value
}

// Interface extracts the host object held by item, provided item
// is an InteropInterface and the object satisfies T.
func Interface[T any](item StackItem) (T, error) {
	var zero T
	ii, ok := item.(*InteropInterface)
	if !ok {
		return zero, ErrTypeMismatch
	}
	v, ok := ii.value.(T)
	if !ok {
		return zero, ErrTypeMismatch
	}
	return v, nil
}

// dupItem returns the item a duplicating opcode should push:
// a clone for Structs and the item itself for everything else.
func dupItem(item StackItem) StackItem {
	if s, ok := item.(*Struct); ok {
		return s.Clone()
	}
	return item
}

func isPrimitive(item StackItem) bool {
	switch item.Type() {
	case IntegerType, BooleanType, ByteArrayType:
		return true
	}
	return false
}

// Limits on the text form of a container. Arrays may contain
// themselves, and shared elements are written once per reference.
const (
	maxStringDepth = 16
	maxStringItems = 1024
)

func containerString(item StackItem) string {
	w := itemWriter{}
	w.write(item, nil)
	return w.b.String()
}

type itemWriter struct {
	b     strings.Builder
	count int
}

// write appends the text form of item. A container that is already
// open further up, or lies beyond the depth or element limits, is
// written as "...".
func (w *itemWriter) write(item StackItem, open []StackItem) {
	var start, end string
	switch item.(type) {
	case *Array:
		start, end = "[", "]"
	case *Struct:
		start, end = "{", "}"
	default:
		w.b.WriteString(item.String())
		return
	}
	for _, o := range open {
		if o == item {
			w.b.WriteString("...")
			return
		}
	}
	if len(open) >= maxStringDepth {
		w.b.WriteString("...")
		return
	}
	elems, _ := item.Items()
	open = append(open, item)
	w.b.WriteString(start)
	for i, elem := range elems {
		if i > 0 {
			w.b.WriteByte(' ')
		}
		if w.count >= maxStringItems {
			w.b.WriteString("...")
			break
		}
		w.count++
		w.write(elem, open)
	}
	w.b.WriteString(end)
}
