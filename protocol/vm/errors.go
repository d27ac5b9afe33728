package vm

import "errors"

var (
	ErrAltStackUnderflow  = errors.New("alt stack underflow")
	ErrBadJump            = errors.New("jump target out of range")
	ErrBadPubKey          = errors.New("malformed public key")
	ErrBadValue           = errors.New("bad value")
	ErrContext            = errors.New("missing execution context")
	ErrDivZero            = errors.New("division by zero")
	ErrEvalStackUnderflow = errors.New("evaluation stack underflow")
	ErrItemTooBig         = errors.New("item too big")
	ErrPushOnly           = errors.New("non-push opcode in push-only context")
	ErrRange              = errors.New("range error")
	ErrScriptNotFound     = errors.New("script not found")
	ErrShortProgram       = errors.New("unexpected end of script")
	ErrThrow              = errors.New("THROW executed")
	ErrToken              = errors.New("unrecognized token")
	ErrTypeMismatch       = errors.New("type mismatch")
	ErrUnexpected         = errors.New("unexpected error")
	ErrUnknownOpcode      = errors.New("unknown opcode")
	ErrUnknownSysCall     = errors.New("unknown system call")
)
