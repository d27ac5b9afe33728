package vm

import "github.com/vardthomas/neo-vm/errors"

// containerItems returns a pointer to the storage of an Array or
// Struct so that opcodes can modify it in place.
func containerItems(item StackItem) (*[]StackItem, error) {
	switch c := item.(type) {
	case *Array:
		return &c.items, nil
	case *Struct:
		return &c.items, nil
	}
	return nil, errors.WithDetailf(ErrTypeMismatch, "%s is not a container", item.Type())
}

func (e *Engine) peekContainer(n int) (*[]StackItem, error) {
	item, err := e.eval.Peek(n)
	if err != nil {
		return nil, err
	}
	return containerItems(item)
}

// peekIndex reads an index operand at n and checks it against
// a container of size l.
func (e *Engine) peekIndex(n, l int) (int, error) {
	i, err := e.peekInt(n)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= l {
		return 0, errors.WithDetailf(ErrRange, "index %d of %d items", i, l)
	}
	return i, nil
}

func opArraySize(e *Engine) error {
	item, err := e.eval.Peek(0)
	if err != nil {
		return err
	}
	var n int
	if items, err := item.Items(); err == nil {
		n = len(items)
	} else {
		b, err := item.Bytes()
		if err != nil {
			return err
		}
		n = len(b)
	}
	return e.replace(1, NewIntegerInt64(int64(n)))
}

// opPack pops a count n and then n items, and pushes an Array
// holding them. The item that was on top comes first.
func opPack(e *Engine) error {
	n, err := e.peekInt(0)
	if err != nil {
		return err
	}
	if n < 0 || n > MaxArraySize {
		return errors.WithDetailf(ErrBadValue, "pack %d items", n)
	}
	if n+1 > e.eval.Len() {
		return ErrEvalStackUnderflow
	}
	items := make([]StackItem, n)
	for i := range items {
		item, _ := e.eval.Peek(i + 1)
		items[i] = dupItem(item)
	}
	return e.replace(n+1, &Array{items: items})
}

// opUnpack pops a container and pushes its items, last item first,
// followed by the number of items.
func opUnpack(e *Engine) error {
	items, err := e.peekContainer(0)
	if err != nil {
		return err
	}
	list := *items
	e.eval.Drop(1)
	for i := len(list) - 1; i >= 0; i-- {
		e.eval.Push(dupItem(list[i]))
	}
	e.eval.Push(NewIntegerInt64(int64(len(list))))
	return nil
}

func opPickItem(e *Engine) error {
	items, err := e.peekContainer(1)
	if err != nil {
		return err
	}
	i, err := e.peekIndex(0, len(*items))
	if err != nil {
		return err
	}
	return e.replace(2, dupItem((*items)[i]))
}

// opSetItem pops a value, an index and a container, and stores the
// value in the container. It pushes nothing.
func opSetItem(e *Engine) error {
	value, err := e.eval.Peek(0)
	if err != nil {
		return err
	}
	items, err := e.peekContainer(2)
	if err != nil {
		return err
	}
	i, err := e.peekIndex(1, len(*items))
	if err != nil {
		return err
	}
	(*items)[i] = dupItem(value)
	return e.eval.Drop(3)
}

func opNewArray(e *Engine) error {
	return newContainer(e, func(items []StackItem) StackItem { return &Array{items: items} })
}

func opNewStruct(e *Engine) error {
	return newContainer(e, func(items []StackItem) StackItem { return &Struct{items: items} })
}

// newContainer implements NEWARRAY and NEWSTRUCT. The operand is
// either a count, giving a container of that many false values, or
// an existing container whose items are copied into the new one.
func newContainer(e *Engine, mk func([]StackItem) StackItem) error {
	item, err := e.eval.Peek(0)
	if err != nil {
		return err
	}
	if src, err := item.Items(); err == nil {
		return e.replace(1, mk(append([]StackItem{}, src...)))
	}

	n, err := e.peekInt(0)
	if err != nil {
		return err
	}
	if n < 0 || n > MaxArraySize {
		return errors.WithDetailf(ErrBadValue, "container of %d items", n)
	}
	items := make([]StackItem, n)
	for i := range items {
		items[i] = NewBoolean(false)
	}
	return e.replace(1, mk(items))
}

func opAppend(e *Engine) error {
	value, err := e.eval.Peek(0)
	if err != nil {
		return err
	}
	items, err := e.peekContainer(1)
	if err != nil {
		return err
	}
	if len(*items) >= MaxArraySize {
		return errors.WithDetailf(ErrBadValue, "append to %d items", len(*items))
	}
	*items = append(*items, dupItem(value))
	return e.eval.Drop(2)
}

func opReverse(e *Engine) error {
	items, err := e.peekContainer(0)
	if err != nil {
		return err
	}
	list := *items
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return e.eval.Drop(1)
}

func opRemove(e *Engine) error {
	items, err := e.peekContainer(1)
	if err != nil {
		return err
	}
	i, err := e.peekIndex(0, len(*items))
	if err != nil {
		return err
	}
	list := *items
	*items = append(list[:i:i], list[i+1:]...)
	return e.eval.Drop(2)
}
