package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vardthomas/neo-vm/crypto/vmcrypto"
	"github.com/vardthomas/neo-vm/errors"
	"github.com/vardthomas/neo-vm/protocol/vm"
)

// readScript decodes a script argument. An argument starting with @
// names a file holding the script. The text is hex unless asm is set.
func readScript(arg string, asm bool) ([]byte, error) {
	text := arg
	if strings.HasPrefix(arg, "@") {
		b, err := os.ReadFile(arg[1:])
		if err != nil {
			return nil, errors.Wrap(err, "reading script")
		}
		text = string(b)
	}
	if asm {
		return vm.Assemble(text)
	}
	script, err := decodeHex(text)
	return script, errors.Wrap(err, "decoding script")
}

func newAsmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "asm <text|@file>",
		Short: "Assemble text into a hex script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := readScript(args[0], true)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%x\n", script)
			return nil
		},
	}
}

func newDisasmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disasm <hex|@file>",
		Short: "Disassemble a hex script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := readScript(args[0], false)
			if err != nil {
				return err
			}
			text, err := vm.Disassemble(script)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newHashCmd() *cobra.Command {
	var asm bool
	cmd := &cobra.Command{
		Use:   "hash <hex|@file>",
		Short: "Print the script hash APPCALL uses to find a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := readScript(args[0], asm)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%x\n", vmcrypto.Hash160(script))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asm, "asm", false, "the script is assembly text, not hex")
	return cmd
}
