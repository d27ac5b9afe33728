package vmexec

import (
	"bytes"
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/vardthomas/neo-vm/crypto/vmcrypto"
	"github.com/vardthomas/neo-vm/errors"
	"github.com/vardthomas/neo-vm/log"
	"github.com/vardthomas/neo-vm/protocol/vm"
)

func newEngine(t *testing.T, script string) *vm.Engine {
	t.Helper()
	prog, err := vm.Assemble(script)
	require.NoError(t, err)
	e := vm.New(vmcrypto.Crypto{})
	e.LoadScript(prog, false)
	return e
}

func TestRunHalt(t *testing.T) {
	e := newEngine(t, "1 2 ADD 'x'")
	res, err := Run(context.Background(), e, Config{Name: "add"})
	require.NoError(t, err)
	require.Equal(t, vm.HALT, res.State)
	require.Equal(t, 5, res.Steps) // four instructions and the final return
	require.Len(t, res.Stack, 2)
	require.True(t, res.Stack[0].Equal(vm.NewByteArray([]byte("x"))))
	require.True(t, res.Stack[1].Equal(vm.NewIntegerInt64(3)))
}

func TestRunEmpty(t *testing.T) {
	res, err := Run(context.Background(), vm.New(vmcrypto.Crypto{}), Config{})
	require.NoError(t, err)
	require.Equal(t, vm.HALT, res.State)
	require.Zero(t, res.Steps)
	require.Empty(t, res.Stack)
}

func TestRunStepLimit(t *testing.T) {
	e := newEngine(t, "$loop JMP:$loop")
	res, err := Run(context.Background(), e, Config{MaxSteps: 10})
	require.Equal(t, ErrStepLimit, errors.Root(err))
	require.Equal(t, vm.NONE, res.State)
	require.Equal(t, 10, res.Steps)

	// The engine can be run further.
	res, err = Run(context.Background(), e, Config{MaxSteps: 3})
	require.Equal(t, ErrStepLimit, errors.Root(err))
	require.Equal(t, 3, res.Steps)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Run(ctx, newEngine(t, "1"), Config{})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, vm.NONE, res.State)
	require.Zero(t, res.Steps)
}

func TestRunFault(t *testing.T) {
	buf := new(bytes.Buffer)
	log.SetOutput(buf)
	defer log.SetOutput(new(bytes.Buffer))

	e := newEngine(t, "1 DROP DROP")
	res, err := Run(context.Background(), e, Config{Name: "underflow"})
	require.Equal(t, vm.ErrEvalStackUnderflow, errors.Root(err))
	require.Equal(t, vm.FAULT, res.State)
	require.Equal(t, 3, res.Steps)
	require.Nil(t, res.Stack)

	out := buf.String()
	require.Contains(t, out, "run=underflow")
	require.Contains(t, out, "pc=2 op=DROP")
	require.Contains(t, out, "script fault")
}

func TestRunBreakPoint(t *testing.T) {
	e := newEngine(t, "1 2 3")
	e.AddBreakPoint(1)

	res, err := Run(context.Background(), e, Config{})
	require.NoError(t, err)
	require.True(t, res.State.HasFlag(vm.BREAK))
	require.Equal(t, 1, res.Steps)
	require.Nil(t, res.Stack)

	res, err = Run(context.Background(), e, Config{})
	require.NoError(t, err)
	require.Equal(t, vm.HALT, res.State)
	require.Equal(t, 3, res.Steps)
	require.Len(t, res.Stack, 3)
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))
	require.Error(t, m.Register(reg))

	cfg := Config{Metrics: m, MaxSteps: 100}
	Run(context.Background(), newEngine(t, "1 2"), cfg)
	Run(context.Background(), newEngine(t, "3"), cfg)
	Run(context.Background(), newEngine(t, "THROW"), cfg)
	Run(context.Background(), newEngine(t, "$l JMP:$l"), cfg)

	require.Equal(t, 2.0, promtest.ToFloat64(m.Runs.WithLabelValues("HALT")))
	require.Equal(t, 1.0, promtest.ToFloat64(m.Runs.WithLabelValues("FAULT")))
	require.Equal(t, 1.0, promtest.ToFloat64(m.Runs.WithLabelValues(stateAborted)))
	require.Equal(t, float64(3+2+1+100), promtest.ToFloat64(m.Steps))
	require.Equal(t, 3, promtest.CollectAndCount(m.Runs))
}

func TestRunSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	old := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(old)

	log.SetOutput(new(bytes.Buffer))
	e := newEngine(t, "THROW")
	hash := e.EntryContext().ScriptHash()
	Run(context.Background(), e, Config{Name: "thrower"})

	spans := sr.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	require.Equal(t, "vm.run", span.Name())
	require.Equal(t, codes.Error, span.Status().Code)

	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	require.Equal(t, "thrower", attrs["vm.name"].AsString())
	require.Equal(t, "FAULT", attrs["vm.state"].AsString())
	require.EqualValues(t, 1, attrs["vm.steps"].AsInt64())
	require.Len(t, attrs["vm.script_hash"].AsString(), 2*len(hash))
}
