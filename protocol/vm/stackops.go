package vm

func opDupFromAltStack(e *Engine) error {
	item, err := e.alt.Peek(0)
	if err != nil {
		return err
	}
	e.eval.Push(dupItem(item))
	return nil
}

func opToAltStack(e *Engine) error {
	item, err := e.eval.Pop()
	if err != nil {
		return err
	}
	e.alt.Push(item)
	return nil
}

func opFromAltStack(e *Engine) error {
	item, err := e.alt.Pop()
	if err != nil {
		return err
	}
	e.eval.Push(item)
	return nil
}

// peekDepth reads a non-negative stack position from the top of the
// evaluation stack and checks that the item it names exists beneath
// the operand.
func (e *Engine) peekDepth() (int, error) {
	n, err := e.peekInt(0)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, ErrBadValue
	}
	if n+1 >= e.eval.Len() {
		return 0, ErrEvalStackUnderflow
	}
	return n, nil
}

func opXDrop(e *Engine) error {
	n, err := e.peekDepth()
	if err != nil {
		return err
	}
	e.eval.Drop(1)
	_, err = e.eval.Remove(n)
	return err
}

func opXSwap(e *Engine) error {
	n, err := e.peekDepth()
	if err != nil {
		return err
	}
	e.eval.Drop(1)
	if n == 0 {
		return nil
	}
	a, _ := e.eval.Peek(0)
	b, _ := e.eval.Peek(n)
	e.eval.Set(0, b)
	return e.eval.Set(n, a)
}

func opXTuck(e *Engine) error {
	n, err := e.peekInt(0)
	if err != nil {
		return err
	}
	if n <= 0 {
		return ErrBadValue
	}
	if n >= e.eval.Len() {
		return ErrEvalStackUnderflow
	}
	e.eval.Drop(1)
	top, _ := e.eval.Peek(0)
	return e.eval.Insert(n, dupItem(top))
}

func opDepth(e *Engine) error {
	e.eval.Push(NewIntegerInt64(int64(e.eval.Len())))
	return nil
}

func opDrop(e *Engine) error {
	return e.eval.Drop(1)
}

func opDup(e *Engine) error {
	item, err := e.eval.Peek(0)
	if err != nil {
		return err
	}
	e.eval.Push(dupItem(item))
	return nil
}

func opNip(e *Engine) error {
	if e.eval.Len() < 2 {
		return ErrEvalStackUnderflow
	}
	_, err := e.eval.Remove(1)
	return err
}

func opOver(e *Engine) error {
	item, err := e.eval.Peek(1)
	if err != nil {
		return err
	}
	e.eval.Push(dupItem(item))
	return nil
}

func opPick(e *Engine) error {
	n, err := e.peekDepth()
	if err != nil {
		return err
	}
	item, _ := e.eval.Peek(n + 1)
	return e.replace(1, dupItem(item))
}

func opRoll(e *Engine) error {
	n, err := e.peekDepth()
	if err != nil {
		return err
	}
	e.eval.Drop(1)
	if n == 0 {
		return nil
	}
	item, err := e.eval.Remove(n)
	if err != nil {
		return err
	}
	e.eval.Push(item)
	return nil
}

func opRot(e *Engine) error {
	if e.eval.Len() < 3 {
		return ErrEvalStackUnderflow
	}
	item, _ := e.eval.Remove(2)
	e.eval.Push(item)
	return nil
}

func opSwap(e *Engine) error {
	if e.eval.Len() < 2 {
		return ErrEvalStackUnderflow
	}
	item, _ := e.eval.Remove(1)
	e.eval.Push(item)
	return nil
}

func opTuck(e *Engine) error {
	if e.eval.Len() < 2 {
		return ErrEvalStackUnderflow
	}
	top, _ := e.eval.Peek(0)
	return e.eval.Insert(2, dupItem(top))
}
