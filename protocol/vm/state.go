package vm

import "strings"

// VMState is a set of flags describing where the engine is.
// The zero value, NONE, means the engine is still running.
type VMState uint8

const (
	NONE  VMState = 0
	HALT  VMState = 1 << 0
	FAULT VMState = 1 << 1
	BREAK VMState = 1 << 2
)

// HasFlag reports whether every flag set in f is also set in s.
func (s VMState) HasFlag(f VMState) bool {
	return s&f == f
}

// terminal reports whether s is HALT or FAULT.
func (s VMState) terminal() bool {
	return s&(HALT|FAULT) != 0
}

func (s VMState) String() string {
	if s == NONE {
		return "NONE"
	}
	var names []string
	for _, f := range []struct {
		flag VMState
		name string
	}{{HALT, "HALT"}, {FAULT, "FAULT"}, {BREAK, "BREAK"}} {
		if s.HasFlag(f.flag) {
			names = append(names, f.name)
		}
	}
	return strings.Join(names, ", ")
}
