package log

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	chainerrors "github.com/vardthomas/neo-vm/errors"
)

func setTestLogWriter(w io.Writer) func() {
	mu.Lock()
	old := out
	out = w
	mu.Unlock()

	return func() {
		mu.Lock()
		out = old
		mu.Unlock()
	}
}

func TestWrite(t *testing.T) {
	cases := []struct {
		keyvals []interface{}
		want    []string
	}{{
		keyvals: []interface{}{"op", "CHECKSIG", "result", true},
		want:    []string{"at=log_test.go:", " t=", "op=CHECKSIG result=true"},
	}, {
		keyvals: []interface{}{"msg", "step limit", "msg", "aborted"},
		want:    []string{`msg="step limit" msg=aborted`},
	}, {
		keyvals: nil,
		want:    []string{"at=log_test.go:", " t="},
	}, {
		keyvals: []interface{}{KeyCaller, "vmexec.go:99", "steps", 4},
		want:    []string{"at=vmexec.go:99 t=", "steps=4"},
	}, {
		keyvals: []interface{}{"pc", 3, "op"},
		want:    []string{"pc=3 op=", `log-error="odd number of log params"`},
	}}

	for _, c := range cases {
		buf := new(bytes.Buffer)
		reset := setTestLogWriter(buf)
		Write(context.Background(), c.keyvals...)
		reset()

		got := buf.String()
		for _, w := range c.want {
			if !strings.Contains(got, w) {
				t.Errorf("Write(%v) = %q, does not contain %q", c.keyvals, got, w)
			}
		}
		if !strings.HasSuffix(got, "\n") || strings.Count(got, "\n") != 1 {
			t.Errorf("Write(%v) = %q, want one line", c.keyvals, got)
		}
	}
}

func TestAddPrefixkv(t *testing.T) {
	buf := new(bytes.Buffer)
	reset := setTestLogWriter(buf)
	defer reset()

	ctx := AddPrefixkv(context.Background(), "script", "ab12")
	ctx = AddPrefixkv(ctx, "depth", 2, "odd")
	Write(ctx, "op", "ADD")

	got := buf.String()
	want := `script=ab12 depth=2 odd= log-error="odd number of prefix params" op=ADD`
	if !strings.Contains(got, want) {
		t.Errorf("Result did not contain string:\ngot:  %s\nwant: %s", got, want)
	}

	// The parent context is unchanged.
	buf.Reset()
	Write(AddPrefixkv(context.Background(), "a", 1), "b", 2)
	if got := buf.String(); strings.Contains(got, "depth") || !strings.Contains(got, "a=1 b=2") {
		t.Errorf("got %s", got)
	}
}

func TestMessagef(t *testing.T) {
	buf := new(bytes.Buffer)
	reset := setTestLogWriter(buf)
	defer reset()

	Messagef(context.Background(), "loaded %d scripts", 3)

	got := buf.String()
	for _, w := range []string{"at=log_test.go:", `message="loaded 3 scripts"`} {
		if !strings.Contains(got, w) {
			t.Errorf("Result did not contain string:\ngot:  %s\nwant: %s", got, w)
		}
	}
}

func TestError(t *testing.T) {
	buf := new(bytes.Buffer)
	reset := setTestLogWriter(buf)
	defer reset()

	Error(context.Background(), errors.New("boo"), "failure x ", 0)

	got := buf.String()
	for _, w := range []string{"at=log_test.go:", `error="failure x 0: boo"`} {
		if !strings.Contains(got, w) {
			t.Errorf("Result did not contain string:\ngot:  %s\nwant: %s", got, w)
		}
	}
	if n := strings.Count(got, "\n"); n != 1 {
		t.Errorf("plain error wrote %d lines, want 1:\n%s", n, got)
	}
}

func TestErrorStack(t *testing.T) {
	buf := new(bytes.Buffer)
	reset := setTestLogWriter(buf)
	defer reset()

	err := chainerrors.Wrap(errors.New("underflow"), "DROP")
	Error(context.Background(), err, "step")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if !strings.Contains(lines[0], `error="step: DROP: underflow"`) {
		t.Errorf("got %s", lines[0])
	}
	if len(lines) < 2 || !strings.Contains(lines[1], "TestErrorStack") {
		t.Errorf("stack not written after entry:\n%s", buf.String())
	}
}

func TestFormat(t *testing.T) {
	keys := []struct {
		key  interface{}
		want string
	}{
		{"script", "script"},
		{"script hash", "script-hash"},
		{"", "?"},
		{7, "7"},
		{"a=b\"c;d|e", "a-b-c-d-e"},
	}
	for _, c := range keys {
		if got := formatKey(c.key); got != c.want {
			t.Errorf("formatKey(%#v) = %q want %q", c.key, got, c.want)
		}
	}

	values := []struct {
		value interface{}
		want  string
	}{
		{"HALT", "HALT"},
		{"HALT, BREAK", `"HALT, BREAK"`},
		{-1, "-1"},
		{errors.New("stack underflow"), `"stack underflow"`},
		{[]byte{0xab}, "[171]"},
		{bytes.NewBufferString("PUSH1"), "PUSH1"},
		{"line\nbreak", `"line\nbreak"`},
	}
	for _, c := range values {
		if got := formatValue(c.value); got != c.want {
			t.Errorf("formatValue(%#v) = %q want %q", c.value, got, c.want)
		}
	}
}
