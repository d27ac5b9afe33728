package vm

import (
	"crypto/sha1"
	"crypto/sha256"

	"github.com/vardthomas/neo-vm/errors"
)

func opSha1(e *Engine) error {
	return hashOp(e, func(b []byte) []byte {
		h := sha1.Sum(b)
		return h[:]
	})
}

func opSha256(e *Engine) error {
	return hashOp(e, func(b []byte) []byte {
		h := sha256.Sum256(b)
		return h[:]
	})
}

func opHash160(e *Engine) error {
	return hashOp(e, e.crypto.Hash160)
}

func opHash256(e *Engine) error {
	return hashOp(e, e.crypto.Hash256)
}

func hashOp(e *Engine, f func([]byte) []byte) error {
	b, err := e.peekBytes(0)
	if err != nil {
		return err
	}
	return e.replace(1, NewByteArray(f(b)))
}

func checkPubKey(pubkey []byte) error {
	switch len(pubkey) {
	case 32, 33, 65:
		return nil
	}
	return errors.WithDetailf(ErrBadPubKey, "%d bytes", len(pubkey))
}

func (e *Engine) message() ([]byte, error) {
	if e.container == nil {
		return nil, errors.WithDetail(ErrContext, "no script container")
	}
	return e.container.GetMessage(), nil
}

// opCheckSig pops a public key, then a signature, and pushes whether
// the signature is valid for the container's message.
func opCheckSig(e *Engine) error {
	pubkey, err := e.peekBytes(0)
	if err != nil {
		return err
	}
	sig, err := e.peekBytes(1)
	if err != nil {
		return err
	}
	err = checkPubKey(pubkey)
	if err != nil {
		return err
	}
	msg, err := e.message()
	if err != nil {
		return err
	}
	return e.replace(2, NewBoolean(e.crypto.VerifySignature(msg, sig, pubkey)))
}

// opCheckMultiSig pops a list of n public keys, then a list of m
// signatures, and pushes whether each signature is valid for a
// distinct key, with signatures and keys in the same order. Each
// list is either an Array or Struct of byte strings, or a count
// followed by that many items.
func opCheckMultiSig(e *Engine) error {
	pubkeys, pos, err := e.peekList(0)
	if err != nil {
		return err
	}
	if len(pubkeys) == 0 {
		return errors.WithDetail(ErrBadValue, "no public keys")
	}
	for _, pubkey := range pubkeys {
		err = checkPubKey(pubkey)
		if err != nil {
			return err
		}
	}
	sigs, pos, err := e.peekList(pos)
	if err != nil {
		return err
	}
	if len(sigs) == 0 || len(sigs) > len(pubkeys) {
		return errors.WithDetailf(ErrBadValue, "%d signatures for %d keys", len(sigs), len(pubkeys))
	}
	msg, err := e.message()
	if err != nil {
		return err
	}

	m, n := len(sigs), len(pubkeys)
	ok := true
	for i, j := 0, 0; ok && i < m && j < n; {
		if e.crypto.VerifySignature(msg, sigs[i], pubkeys[j]) {
			i++
		}
		j++
		if m-i > n-j {
			ok = false
		}
	}
	return e.replace(pos, NewBoolean(ok))
}

// peekList reads a list operand starting pos items below the top of
// the evaluation stack. It returns the list and the position just
// past it.
func (e *Engine) peekList(pos int) ([][]byte, int, error) {
	item, err := e.eval.Peek(pos)
	if err != nil {
		return nil, 0, err
	}
	if items, err := item.Items(); err == nil {
		res := make([][]byte, 0, len(items))
		for _, it := range items {
			b, err := it.Bytes()
			if err != nil {
				return nil, 0, err
			}
			res = append(res, b)
		}
		return res, pos + 1, nil
	}

	count, err := item.BigInt()
	if err != nil {
		return nil, 0, err
	}
	n, err := bigToInt(count)
	if err != nil {
		return nil, 0, err
	}
	if n < 1 || pos+1+n > e.eval.Len() {
		return nil, 0, errors.WithDetailf(ErrBadValue, "list of %d items", n)
	}
	res := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		b, err := e.peekBytes(pos + 1 + i)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, b)
	}
	return res, pos + 1 + n, nil
}
