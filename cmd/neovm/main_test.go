package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"github.com/vardthomas/neo-vm/crypto/vmcrypto"
	"github.com/vardthomas/neo-vm/errors"
	"github.com/vardthomas/neo-vm/protocol/vm"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestAsmDisasmHash(t *testing.T) {
	out, err := runCmd(t, "asm", "1 2 ADD")
	require.NoError(t, err)
	require.Equal(t, "515293\n", out)

	out, err = runCmd(t, "disasm", "515293")
	require.NoError(t, err)
	script, err := vm.Assemble(strings.TrimSpace(out))
	require.NoError(t, err)
	require.Equal(t, "515293", hex.EncodeToString(script))

	out, err = runCmd(t, "hash", "--asm", "1 2 ADD")
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("%x\n", vmcrypto.Hash160([]byte{0x51, 0x52, 0x93})), out)

	path := writeFile(t, "prog.asm", "1 2 ADD\n")
	out, err = runCmd(t, "asm", "@"+path)
	require.NoError(t, err)
	require.Equal(t, "515293\n", out)

	_, err = runCmd(t, "disasm", "zz")
	require.Error(t, err)
}

func TestRunJSON(t *testing.T) {
	out, err := runCmd(t, "run", "--asm", "1 2 ADD 'hi' 2 PACK")
	require.NoError(t, err)

	var got runOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, "HALT", got.State)
	require.Empty(t, got.Error)
	require.Equal(t, []itemOutput{{
		Type: "Array",
		Items: []itemOutput{
			{Type: "ByteArray", Value: "6869"},
			{Type: "Integer", Value: "3"},
		},
	}}, got.Stack)
}

func TestRunCBOR(t *testing.T) {
	out, err := runCmd(t, "run", "--format", "cbor", "515293")
	require.NoError(t, err)
	b, err := hex.DecodeString(strings.TrimSpace(out))
	require.NoError(t, err)

	var got runOutput
	require.NoError(t, cbor.Unmarshal(b, &got))
	require.Equal(t, "HALT", got.State)
	require.Equal(t, []itemOutput{{Type: "Integer", Value: "3"}}, got.Stack)
}

func TestRunFault(t *testing.T) {
	out, err := runCmd(t, "run", "--asm", "1 DROP DROP")
	require.Error(t, err)

	var got runOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, "FAULT", got.State)
	require.Contains(t, got.Error, "DROP")
	require.Empty(t, got.Stack)
}

func TestRunStepLimit(t *testing.T) {
	out, err := runCmd(t, "run", "--asm", "--max-steps", "10", "$top JMP:$top")
	require.Error(t, err)

	var got runOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, 10, got.Steps)
	require.Contains(t, got.Error, "step limit")
}

func TestRunBadFlags(t *testing.T) {
	_, err := runCmd(t, "run", "--trigger", "sometimes", "51")
	require.Equal(t, errConfig, errors.Root(err))

	_, err = runCmd(t, "run", "--format", "yaml", "51")
	require.Equal(t, errConfig, errors.Root(err))

	_, err = runCmd(t, "run", "--message", "xyz", "51")
	require.Equal(t, errConfig, errors.Root(err))
}

func TestRunConfigFile(t *testing.T) {
	callee := []byte{0x51, 0x93} // 1 ADD
	path := writeFile(t, "neovm.toml", `
[engine]
max_steps = 100

[scripts]
inline = ["5193"]
`)
	prog := fmt.Sprintf("2 APPCALL:0x%x", vmcrypto.Hash160(callee))
	out, err := runCmd(t, "run", "--config", path, "--asm", prog)
	require.NoError(t, err)

	var got runOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, "HALT", got.State)
	require.Equal(t, []itemOutput{{Type: "Integer", Value: "3"}}, got.Stack)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, 0, cfg.Engine.MaxSteps)

	path := writeFile(t, "ok.toml", `
message = "0102"

[engine]
max_steps = 5
timeout = "2s"

[scripts]
leveldb = "/tmp/scripts"
cache_size = 8
`)
	cfg, err = loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.Engine.MaxSteps)
	require.Equal(t, "/tmp/scripts", cfg.Scripts.LevelDB)
	require.Equal(t, 8, cfg.Scripts.CacheSize)
	msg, err := cfg.message()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, msg)
	d, err := cfg.timeout()
	require.NoError(t, err)
	require.Equal(t, "2s", d.String())

	path = writeFile(t, "bad.toml", "[engine]\nmax_stepz = 5\n")
	_, err = loadConfig(path)
	require.Equal(t, errConfig, errors.Root(err))

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestDebugger(t *testing.T) {
	script, err := vm.Assemble("1 2 ADD DUP")
	require.NoError(t, err)
	e := vm.New(vmcrypto.Crypto{})
	e.LoadScript(script, false)
	d := &debugger{engine: e}

	exec := func(line string) string {
		var buf bytes.Buffer
		require.False(t, d.exec(line, &buf), line)
		return buf.String()
	}

	require.Equal(t, "breakpoint at 2\n", exec("b 2"))
	require.Equal(t, "BREAK depth=1 ip=2 next=ADD\n", exec("run"))
	require.Equal(t, "0: Integer 2\n1: Integer 1\n", exec("estack"))
	require.Equal(t, "(empty)\n", exec("astack"))
	require.Equal(t, "NONE depth=1 ip=3 next=DUP\n", exec("step"))
	require.Contains(t, exec("dump 0"), "Integer")
	require.Equal(t, "cleared breakpoint at 2\n", exec("delete 2"))
	require.Equal(t, "no breakpoint at 2\n", exec("d 2"))
	require.Contains(t, exec("b x"), "bad position")
	require.Contains(t, exec("frobnicate"), "unknown command")
	require.Equal(t, "", exec("   "))
	require.Equal(t, "HALT\n", exec("run"))
	require.Equal(t, "0: Integer 3\n1: Integer 3\n", exec("estack"))
	require.True(t, d.exec("quit", new(bytes.Buffer)))
}

func TestDebuggerOps(t *testing.T) {
	script, err := vm.Assemble("1 2 ADD")
	require.NoError(t, err)
	e := vm.New(vmcrypto.Crypto{})
	e.LoadScript(script, false)
	d := &debugger{engine: e}

	var buf bytes.Buffer
	d.exec("ops", &buf)
	got, err := vm.Assemble(strings.TrimSpace(buf.String()))
	require.NoError(t, err)
	require.Equal(t, script, got)
}
