// Package testutil holds comparison and failure helpers shared by
// the package tests.
package testutil

import "reflect"

// DeepEqual is reflect.DeepEqual, except that a nil slice or map
// equals an empty one. The big.Int inside an Integer item may hold
// either form for zero.
func DeepEqual(x, y interface{}) bool {
	c := comparer{seen: make(map[seenPair]bool)}
	return c.equal(reflect.ValueOf(x), reflect.ValueOf(y))
}

type seenPair struct {
	x, y uintptr
	t    reflect.Type
}

type comparer struct {
	seen map[seenPair]bool
}

func isEmpty(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	}
	return false
}

// visited reports whether x and y were compared before, and marks
// them. Cyclic values compare equal on the second visit.
func (c *comparer) visited(x, y reflect.Value) bool {
	switch x.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice:
		if x.IsNil() || y.IsNil() {
			return false
		}
	default:
		return false
	}
	p := seenPair{x.Pointer(), y.Pointer(), x.Type()}
	if p.x > p.y {
		p.x, p.y = p.y, p.x
	}
	if c.seen[p] {
		return true
	}
	c.seen[p] = true
	return false
}

func (c *comparer) equal(x, y reflect.Value) bool {
	if isEmpty(x) && isEmpty(y) {
		return true
	}
	if !x.IsValid() || !y.IsValid() {
		return false
	}
	if x.Type() != y.Type() {
		return false
	}
	if c.visited(x, y) {
		return true
	}

	switch x.Kind() {
	case reflect.Bool:
		return x.Bool() == y.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return x.Int() == y.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return x.Uint() == y.Uint()
	case reflect.Float32, reflect.Float64:
		return x.Float() == y.Float()
	case reflect.Complex64, reflect.Complex128:
		return x.Complex() == y.Complex()
	case reflect.String:
		return x.String() == y.String()
	case reflect.Array, reflect.Slice:
		if x.Len() != y.Len() {
			return false
		}
		for i := 0; i < x.Len(); i++ {
			if !c.equal(x.Index(i), y.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Map:
		if x.Len() != y.Len() {
			return false
		}
		iter := x.MapRange()
		for iter.Next() {
			yv := y.MapIndex(iter.Key())
			if !yv.IsValid() || !c.equal(iter.Value(), yv) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < x.NumField(); i++ {
			if !c.equal(x.Field(i), y.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Ptr, reflect.Interface:
		if x.IsNil() || y.IsNil() {
			return x.IsNil() == y.IsNil()
		}
		return c.equal(x.Elem(), y.Elem())
	case reflect.Chan, reflect.UnsafePointer:
		return x.Pointer() == y.Pointer()
	case reflect.Func:
		return x.IsNil() && y.IsNil()
	}
	return false
}
