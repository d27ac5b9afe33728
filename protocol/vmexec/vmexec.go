// Package vmexec runs a script engine on behalf of a host,
// bounding the run and reporting on it.
package vmexec

import (
	"context"
	"encoding/hex"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vardthomas/neo-vm/errors"
	"github.com/vardthomas/neo-vm/log"
	"github.com/vardthomas/neo-vm/protocol/vm"
)

// ErrStepLimit is returned by Run when the engine used up its step
// budget without stopping.
var ErrStepLimit = errors.New("step limit exceeded")

// Label for runs that Run gave up on.
const stateAborted = "ABORTED"

var tracer = otel.Tracer("github.com/vardthomas/neo-vm/protocol/vmexec")

// Config bounds and labels a run.
type Config struct {
	// MaxSteps is the number of instructions Run executes before
	// giving up. Zero means no limit.
	MaxSteps int

	// Name identifies the run in logs and traces.
	Name string

	// Metrics, if set, receives the counts of every run.
	Metrics *Metrics
}

// Result describes where a run stopped.
type Result struct {
	State vm.VMState
	Steps int

	// Stack is the evaluation stack, top first. It is set only
	// when the engine halted.
	Stack []vm.StackItem
}

// Run steps e until it halts, faults or pauses at a breakpoint.
// An engine paused before Run is called is resumed.
//
// Run gives up with ErrStepLimit once cfg.MaxSteps instructions
// have executed, and with ctx.Err() when ctx is done; the engine
// is left as it was after its last instruction. If the engine
// faults, Run returns the engine's error along with the result.
func Run(ctx context.Context, e *vm.Engine, cfg Config) (Result, error) {
	var hash string
	if entry := e.EntryContext(); entry != nil {
		hash = hex.EncodeToString(entry.ScriptHash())
	}
	ctx, span := tracer.Start(ctx, "vm.run", trace.WithAttributes(
		attribute.String("vm.name", cfg.Name),
		attribute.String("vm.script_hash", hash),
	))
	defer span.End()
	ctx = log.AddPrefixkv(ctx, "run", cfg.Name, "script", hash)

	var (
		res     Result
		err     error
		started bool
	)
	for {
		state := e.State()
		if state.HasFlag(vm.HALT) || state.HasFlag(vm.FAULT) || (started && state.HasFlag(vm.BREAK)) {
			break
		}
		if err = ctx.Err(); err != nil {
			break
		}
		if cfg.MaxSteps > 0 && res.Steps >= cfg.MaxSteps {
			err = errors.WithDetailf(ErrStepLimit, "%d steps", res.Steps)
			break
		}
		depth := e.InvocationDepth()
		e.Step()
		started = true
		// A step that stops at a breakpoint executes nothing.
		if depth > 0 && !(state == vm.NONE && e.State().HasFlag(vm.BREAK)) {
			res.Steps++
		}
	}
	res.State = e.State()

	label := res.State.String()
	switch {
	case err != nil:
		label = stateAborted
	case res.State.HasFlag(vm.HALT):
		res.Stack = e.EvaluationStack().Items()
	case res.State.HasFlag(vm.FAULT):
		err = e.Err()
		var verr vm.Error
		if errors.As(err, &verr) {
			ctx = log.AddPrefixkv(ctx, "pc", verr.PC, "op", verr.Op)
		}
		log.Error(ctx, err, "script fault")
	}
	cfg.Metrics.observe(res, label)

	span.SetAttributes(
		attribute.String("vm.state", label),
		attribute.Int("vm.steps", res.Steps),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, label)
	}
	return res, err
}
