package vmutil

import (
	"github.com/vardthomas/neo-vm/errors"
	"github.com/vardthomas/neo-vm/protocol/vm"
)

var (
	ErrBadValue       = errors.New("bad value")
	ErrMultisigFormat = errors.New("bad multisig script format")
)

// MaxMultiSigKeys bounds the number of keys in a multisig script.
const MaxMultiSigKeys = 1024

func checkPubKey(pubkey []byte) error {
	switch len(pubkey) {
	case 32, 33, 65:
		return nil
	}
	return errors.WithDetailf(ErrBadValue, "public key of %d bytes", len(pubkey))
}

// SigScript returns the verification script for a single key:
// <pubkey> CHECKSIG.
func SigScript(pubkey []byte) ([]byte, error) {
	err := checkPubKey(pubkey)
	if err != nil {
		return nil, err
	}
	return NewBuilder().AddData(pubkey).AddOp(vm.OP_CHECKSIG).Build()
}

// IsStandardSig reports whether script has the form produced by
// SigScript.
func IsStandardSig(script []byte) bool {
	insts, err := vm.ParseProgram(script)
	if err != nil || len(insts) != 2 {
		return false
	}
	return insts[0].Op >= vm.OP_PUSHBYTES1 && insts[0].Op <= vm.OP_PUSHBYTES75 &&
		checkPubKey(insts[0].Data) == nil &&
		insts[1].Op == vm.OP_CHECKSIG
}

// MultiSigScript returns a verification script that succeeds when
// nrequired of the keys in pubkeys have signed the message. The
// result is: <nrequired> <pubkey>... <npubkeys> CHECKMULTISIG.
//
// The matching invocation script (see InvocationScript) pushes the
// signatures in the same order as their keys appear in pubkeys.
func MultiSigScript(pubkeys [][]byte, nrequired int) ([]byte, error) {
	err := checkMultiSigParams(int64(nrequired), int64(len(pubkeys)))
	if err != nil {
		return nil, err
	}
	builder := NewBuilder()
	builder.AddInt64(int64(nrequired))
	for _, key := range pubkeys {
		err = checkPubKey(key)
		if err != nil {
			return nil, err
		}
		builder.AddData(key)
	}
	builder.AddInt64(int64(len(pubkeys))).AddOp(vm.OP_CHECKMULTISIG)
	return builder.Build()
}

// ParseMultiSigScript is the inverse of MultiSigScript.
func ParseMultiSigScript(script []byte) ([][]byte, int, error) {
	pops, err := vm.ParseProgram(script)
	if err != nil {
		return nil, 0, err
	}
	if len(pops) < 4 {
		return nil, 0, vm.ErrShortProgram
	}
	if pops[len(pops)-1].Op != vm.OP_CHECKMULTISIG {
		return nil, 0, errors.Wrap(ErrMultisigFormat, "no CHECKMULTISIG")
	}
	npubkeys, err := pushedInt(pops[len(pops)-2])
	if err != nil {
		return nil, 0, errors.Wrap(err, "parsing npubkeys")
	}
	if int(npubkeys) != len(pops)-3 {
		return nil, 0, errors.WithDetailf(ErrMultisigFormat, "%d keys declared, %d present", npubkeys, len(pops)-3)
	}
	nrequired, err := pushedInt(pops[0])
	if err != nil {
		return nil, 0, errors.Wrap(err, "parsing nrequired")
	}
	err = checkMultiSigParams(nrequired, npubkeys)
	if err != nil {
		return nil, 0, err
	}

	pubkeys := make([][]byte, 0, npubkeys)
	for _, pop := range pops[1 : len(pops)-2] {
		if pop.Op < vm.OP_PUSHBYTES1 || pop.Op > vm.OP_PUSHDATA4 {
			return nil, 0, errors.WithDetailf(ErrMultisigFormat, "%s in key list", pop.Op)
		}
		err = checkPubKey(pop.Data)
		if err != nil {
			return nil, 0, err
		}
		pubkeys = append(pubkeys, pop.Data)
	}
	return pubkeys, int(nrequired), nil
}

// InvocationScript returns a script that pushes sigs in order. Run
// before a verification script, it supplies that script's signatures.
func InvocationScript(sigs ...[]byte) ([]byte, error) {
	builder := NewBuilder()
	for _, sig := range sigs {
		builder.AddData(sig)
	}
	return builder.Build()
}

// pushedInt returns the integer pushed by a push instruction.
func pushedInt(inst vm.Instruction) (int64, error) {
	switch {
	case inst.Op == vm.OP_PUSH0:
		return 0, nil
	case inst.Op == vm.OP_PUSHM1:
		return -1, nil
	case inst.Op >= vm.OP_PUSH1 && inst.Op <= vm.OP_PUSH16:
		return int64(inst.Op-vm.OP_PUSH1) + 1, nil
	case inst.Op >= vm.OP_PUSHBYTES1 && inst.Op <= vm.OP_PUSHDATA4:
		n, err := vm.AsInt64(inst.Data)
		if err != nil {
			return 0, errors.Wrap(ErrMultisigFormat, "integer too big")
		}
		return n, nil
	}
	return 0, errors.WithDetailf(ErrMultisigFormat, "%s does not push an integer", inst.Op)
}

func checkMultiSigParams(nrequired, npubkeys int64) error {
	if nrequired < 1 {
		return errors.WithDetail(ErrBadValue, "quorum must be positive")
	}
	if npubkeys > MaxMultiSigKeys {
		return errors.WithDetail(ErrBadValue, "too many keys")
	}
	if nrequired > npubkeys {
		return errors.WithDetail(ErrBadValue, "quorum too big")
	}
	return nil
}
