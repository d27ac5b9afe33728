// Package vmcrypto provides the hashing and signature verification
// used by the script engine outside of tests.
package vmcrypto

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/ed25519"
)

// Crypto implements vm.Crypto. Keys of 32 bytes are ed25519 keys
// and sign the message itself. Keys of 33 or 65 bytes are secp256k1
// keys, compressed or not, and sign the SHA-256 of the message with
// either a 64-byte r||s signature or a DER one.
type Crypto struct{}

func (Crypto) Hash160(data []byte) []byte { return Hash160(data) }
func (Crypto) Hash256(data []byte) []byte { return Hash256(data) }

func (Crypto) VerifySignature(msg, sig, pubkey []byte) bool {
	switch len(pubkey) {
	case ed25519.PublicKeySize:
		if len(sig) != ed25519.SignatureSize {
			return false
		}
		return ed25519.Verify(ed25519.PublicKey(pubkey), msg, sig)
	case btcec.PubKeyBytesLenCompressed, secp256k1.PubKeyBytesLenUncompressed:
		return verifyECDSA(msg, sig, pubkey)
	}
	return false
}

func verifyECDSA(msg, sig, pubkey []byte) bool {
	key, err := btcec.ParsePubKey(pubkey)
	if err != nil {
		return false
	}
	s, ok := parseECDSASig(sig)
	if !ok {
		return false
	}
	digest := sha256.Sum256(msg)
	return s.Verify(digest[:], key)
}

func parseECDSASig(sig []byte) (*ecdsa.Signature, bool) {
	if len(sig) != 64 {
		s, err := ecdsa.ParseDERSignature(sig)
		return s, err == nil
	}
	var r, s btcec.ModNScalar
	if r.SetByteSlice(sig[:32]) || s.SetByteSlice(sig[32:]) {
		return nil, false
	}
	if r.IsZero() || s.IsZero() {
		return nil, false
	}
	return ecdsa.NewSignature(&r, &s), true
}
