package vmcrypto

import (
	"crypto/sha256"
	"hash"

	"golang.org/x/crypto/ripemd160"
)

// Hash160Size and Hash256Size are the digest lengths of Hash160
// and Hash256.
const (
	Hash160Size = ripemd160.Size
	Hash256Size = sha256.Size
)

// NewHash160 returns a hash.Hash computing ripemd160(sha256(data)),
// the digest that names scripts.
func NewHash160() hash.Hash {
	return &doubleDigest{inner: sha256.New(), outer: ripemd160.New()}
}

// NewHash256 returns a hash.Hash computing sha256(sha256(data)).
func NewHash256() hash.Hash {
	return &doubleDigest{inner: sha256.New(), outer: sha256.New()}
}

type doubleDigest struct {
	inner hash.Hash
	outer hash.Hash
}

func (d *doubleDigest) Reset()         { d.inner.Reset() }
func (d *doubleDigest) Size() int      { return d.outer.Size() }
func (d *doubleDigest) BlockSize() int { return d.inner.BlockSize() }
func (d *doubleDigest) Write(p []byte) (int, error) {
	return d.inner.Write(p)
}

func (d *doubleDigest) Sum(in []byte) []byte {
	d.outer.Reset()
	d.outer.Write(d.inner.Sum(nil))
	return d.outer.Sum(in)
}

// Hash160 returns ripemd160(sha256(data)).
func Hash160(data []byte) []byte {
	h := NewHash160()
	h.Write(data)
	return h.Sum(nil)
}

// Hash256 returns sha256(sha256(data)).
func Hash256(data []byte) []byte {
	inner := sha256.Sum256(data)
	outer := sha256.Sum256(inner[:])
	return outer[:]
}
