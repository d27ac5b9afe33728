package errors

import (
	"fmt"
	"runtime"
)

// Frames recorded per error.
const stackDepth = 10

// StackFrame is one call site in a recorded stack.
type StackFrame struct {
	Func string
	File string
	Line int
}

func (f StackFrame) String() string {
	return fmt.Sprintf("%s:%d - %s", f.File, f.Line, f.Func)
}

// Stack returns the stack recorded when err, or an error it wraps,
// was first passed to Wrap or one of its variants.
func Stack(err error) []StackFrame {
	var c chainError
	if As(err, &c) {
		return c.stack
	}
	return nil
}

// callers returns up to n frames of the calling goroutine's stack,
// starting skip frames above the caller of callers.
func callers(skip, n int) []StackFrame {
	pcs := make([]uintptr, n)
	pcs = pcs[:runtime.Callers(skip+2, pcs)]
	if len(pcs) == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs)
	var stack []StackFrame
	for {
		f, more := frames.Next()
		stack = append(stack, StackFrame{Func: f.Function, File: f.File, Line: f.Line})
		if !more {
			return stack
		}
	}
}
