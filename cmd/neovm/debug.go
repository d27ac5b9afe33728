package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/vardthomas/neo-vm/errors"
	"github.com/vardthomas/neo-vm/log"
	"github.com/vardthomas/neo-vm/protocol/vm"
	"github.com/vardthomas/neo-vm/protocol/vmservice"
)

const debugHelp = `commands:
  step, s         execute one instruction
  over, n         step over a CALL or APPCALL
  out, o          run until the current script returns
  run, c          run until halt, fault or a breakpoint
  break, b <ip>   set a breakpoint in the current script
  delete, d <ip>  clear a breakpoint in the current script
  estack          print the evaluation stack, top first
  astack          print the alt stack, top first
  dump <n>        dump evaluation stack item n in detail
  ip              print the current position
  ops             disassemble the current script
  quit, q         leave the debugger
`

func newDebugCmd(configPath *string) *cobra.Command {
	var flags engineFlags
	cmd := &cobra.Command{
		Use:   "debug [flags] <hex|@file>",
		Short: "Step through a script interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sessionConfig(cmd, *configPath, &flags)
			if err != nil {
				return err
			}
			script, err := readScript(args[0], flags.asm)
			if err != nil {
				return err
			}
			ctx := log.AddPrefixkv(cmd.Context(), "cmd", "debug")
			s, err := newSession(ctx, cmd, cfg, script, vmservice.Application)
			if err != nil {
				return err
			}
			defer s.close()

			home, _ := os.UserHomeDir()
			rl, err := readline.NewEx(&readline.Config{
				Prompt:      "neovm> ",
				HistoryFile: filepath.Join(home, ".neovm_history"),
			})
			if err != nil {
				return errors.Wrap(err, "starting readline")
			}
			defer rl.Close()

			d := &debugger{engine: s.engine}
			out := rl.Stdout()
			fmt.Fprint(out, debugHelp)
			d.printPosition(out)
			for {
				line, err := rl.Readline()
				if err == readline.ErrInterrupt {
					continue
				} else if err == io.EOF {
					return nil
				} else if err != nil {
					return err
				}
				if d.exec(line, out) {
					return nil
				}
			}
		},
	}
	flags.register(cmd)
	return cmd
}

// debugger carries out debug commands against an engine.
type debugger struct {
	engine *vm.Engine
}

// exec runs one command line, writing its output to w, and reports
// whether the user asked to quit.
func (d *debugger) exec(line string, w io.Writer) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	e := d.engine
	switch cmd, args := fields[0], fields[1:]; cmd {
	case "quit", "q", "exit":
		return true
	case "help", "h", "?":
		fmt.Fprint(w, debugHelp)
	case "step", "s":
		e.StepInto()
		d.printPosition(w)
	case "over", "n":
		e.StepOver()
		d.printPosition(w)
	case "out", "o":
		e.StepOut()
		d.printPosition(w)
	case "run", "c":
		e.Execute()
		d.printPosition(w)
	case "break", "b", "delete", "d":
		if len(args) != 1 {
			fmt.Fprintf(w, "usage: %s <ip>\n", cmd)
			return false
		}
		pos, err := strconv.Atoi(args[0])
		if err != nil || pos < 0 {
			fmt.Fprintf(w, "bad position %q\n", args[0])
			return false
		}
		if e.CurrentContext() == nil {
			fmt.Fprintln(w, "no script loaded")
			return false
		}
		if cmd == "break" || cmd == "b" {
			e.AddBreakPoint(pos)
			fmt.Fprintf(w, "breakpoint at %d\n", pos)
		} else if e.RemoveBreakPoint(pos) {
			fmt.Fprintf(w, "cleared breakpoint at %d\n", pos)
		} else {
			fmt.Fprintf(w, "no breakpoint at %d\n", pos)
		}
	case "estack":
		printStack(w, e.EvaluationStack())
	case "astack":
		printStack(w, e.AltStack())
	case "dump":
		n := 0
		if len(args) > 0 {
			var err error
			n, err = strconv.Atoi(args[0])
			if err != nil {
				fmt.Fprintf(w, "bad index %q\n", args[0])
				return false
			}
		}
		item, err := e.EvaluationStack().Peek(n)
		if err != nil {
			fmt.Fprintln(w, err)
			return false
		}
		spew.Fdump(w, item)
	case "ip":
		d.printPosition(w)
	case "ops":
		ctx := e.CurrentContext()
		if ctx == nil {
			fmt.Fprintln(w, "no script loaded")
			return false
		}
		text, err := vm.Disassemble(ctx.Script())
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, text)
	default:
		fmt.Fprintf(w, "unknown command %q (try help)\n", cmd)
	}
	return false
}

func (d *debugger) printPosition(w io.Writer) {
	e := d.engine
	ctx := e.CurrentContext()
	switch {
	case e.State().HasFlag(vm.FAULT):
		fmt.Fprintf(w, "FAULT: %v\n", e.Err())
	case ctx == nil:
		fmt.Fprintf(w, "%s\n", e.State())
	default:
		next := "end"
		if op, ok := ctx.NextInstruction(); ok {
			next = op.String()
		}
		fmt.Fprintf(w, "%s depth=%d ip=%d next=%s\n", e.State(), e.InvocationDepth(), ctx.IP(), next)
	}
}

func printStack(w io.Writer, s *vm.Stack) {
	items := s.Items()
	if len(items) == 0 {
		fmt.Fprintln(w, "(empty)")
		return
	}
	for i, item := range items {
		fmt.Fprintf(w, "%d: %s %s\n", i, item.Type(), item)
	}
}
