package vm

import (
	"github.com/vardthomas/neo-vm/errors"
	"github.com/vardthomas/neo-vm/math/checked"
)

func opCat(e *Engine) error {
	b, err := e.peekBytes(0)
	if err != nil {
		return err
	}
	a, err := e.peekBytes(1)
	if err != nil {
		return err
	}
	size, err := checked.AddAll(len(a), len(b))
	if err != nil || size > MaxItemSize {
		return errors.WithDetailf(ErrItemTooBig, "%d + %d bytes", len(a), len(b))
	}
	res := make(ByteArray, 0, size)
	res = append(append(res, a...), b...)
	return e.replace(2, res)
}

func opSubstr(e *Engine) error {
	count, err := e.peekInt(0)
	if err != nil {
		return err
	}
	if count < 0 {
		return ErrBadValue
	}
	index, err := e.peekInt(1)
	if err != nil {
		return err
	}
	if index < 0 {
		return ErrBadValue
	}
	str, err := e.peekBytes(2)
	if err != nil {
		return err
	}
	if index > len(str) {
		return errors.WithDetailf(ErrRange, "index %d of %d bytes", index, len(str))
	}
	end, ok := checked.Add(index, count)
	if !ok || end > len(str) {
		end = len(str)
	}
	return e.replace(3, NewByteArray(str[index:end]))
}

func opLeft(e *Engine) error {
	count, err := e.peekInt(0)
	if err != nil {
		return err
	}
	if count < 0 {
		return ErrBadValue
	}
	str, err := e.peekBytes(1)
	if err != nil {
		return err
	}
	if count > len(str) {
		count = len(str)
	}
	return e.replace(2, NewByteArray(str[:count]))
}

func opRight(e *Engine) error {
	count, err := e.peekInt(0)
	if err != nil {
		return err
	}
	if count < 0 {
		return ErrBadValue
	}
	str, err := e.peekBytes(1)
	if err != nil {
		return err
	}
	if count > len(str) {
		return errors.WithDetailf(ErrRange, "%d of %d bytes", count, len(str))
	}
	return e.replace(2, NewByteArray(str[len(str)-count:]))
}

func opSize(e *Engine) error {
	str, err := e.peekBytes(0)
	if err != nil {
		return err
	}
	return e.replace(1, NewIntegerInt64(int64(len(str))))
}
