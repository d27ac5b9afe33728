package vm

import (
	"github.com/vardthomas/neo-vm/errors"
)

// Crypto performs hashing and signature verification for the engine.
type Crypto interface {
	// Hash160 returns a 20-byte digest of data.
	Hash160(data []byte) []byte

	// Hash256 returns a 32-byte digest of data.
	Hash256(data []byte) []byte

	// VerifySignature reports whether signature is a valid signature
	// of message under pubkey. It returns false, rather than
	// failing, for well-formed but invalid input.
	VerifySignature(message, signature, pubkey []byte) bool
}

// ScriptTable resolves script hashes for APPCALL and TAILCALL.
// A hash that is not present is reported with ok == false;
// err is reserved for failures of the underlying store.
type ScriptTable interface {
	GetScript(hash []byte) (script []byte, ok bool, err error)
}

// ScriptContainer supplies the message that CHECKSIG and
// CHECKMULTISIG verify signatures against. It is also the object
// returned to scripts by System.ExecutionEngine.GetScriptContainer.
type ScriptContainer interface {
	GetMessage() []byte
}

// SysCallFunc implements a host service invoked by SYSCALL. It may
// push and pop the engine's stacks. A non-nil error faults the engine.
type SysCallFunc func(e *Engine) error

// Names of the services every engine provides.
const (
	SysGetScriptContainer     = "System.ExecutionEngine.GetScriptContainer"
	SysGetExecutingScriptHash = "System.ExecutionEngine.GetExecutingScriptHash"
	SysGetCallingScriptHash   = "System.ExecutionEngine.GetCallingScriptHash"
	SysGetEntryScriptHash     = "System.ExecutionEngine.GetEntryScriptHash"
)

var builtinServices = map[string]SysCallFunc{
	SysGetScriptContainer:     sysGetScriptContainer,
	SysGetExecutingScriptHash: sysGetExecutingScriptHash,
	SysGetCallingScriptHash:   sysGetCallingScriptHash,
	SysGetEntryScriptHash:     sysGetEntryScriptHash,
}

func sysGetScriptContainer(e *Engine) error {
	if e.container == nil {
		return errors.WithDetail(ErrContext, "no script container")
	}
	e.eval.Push(NewInterop(e.container))
	return nil
}

func sysGetExecutingScriptHash(e *Engine) error {
	return pushScriptHash(e, e.CurrentContext())
}

func sysGetCallingScriptHash(e *Engine) error {
	return pushScriptHash(e, e.CallingContext())
}

func sysGetEntryScriptHash(e *Engine) error {
	return pushScriptHash(e, e.EntryContext())
}

func pushScriptHash(e *Engine, ctx *ExecutionContext) error {
	if ctx == nil {
		return ErrContext
	}
	e.eval.Push(NewByteArray(ctx.ScriptHash()))
	return nil
}
