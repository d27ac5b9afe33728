// Command neovm assembles, inspects, runs and debugs scripts.
//
// Usage:
//
//	neovm asm '<text>'
//	neovm disasm <hex>
//	neovm hash <hex>
//	neovm run [flags] <hex|@file>
//	neovm debug [flags] <hex|@file>
//
// Settings are read from the environment (NEOVM_MAX_STEPS,
// NEOVM_TRACE, NEOVM_TIMEOUT, NEOVM_SCRIPT_DB, NEOVM_DATABASE_URL),
// then from the TOML file named by --config, then from flags.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vardthomas/neo-vm/env"
	"github.com/vardthomas/neo-vm/log"
)

// config vars
var (
	envMaxSteps    = env.Int("NEOVM_MAX_STEPS", 0)
	envTrace       = env.Bool("NEOVM_TRACE", false)
	envTimeout     = env.Duration("NEOVM_TIMEOUT", 0)
	envScriptDB    = env.String("NEOVM_SCRIPT_DB", "")
	envDatabaseURL = env.String("NEOVM_DATABASE_URL", "")
)

func main() {
	err := env.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:          "neovm",
		Short:        "Assemble, run and debug scripts",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetOutput(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "TOML configuration file")

	root.AddCommand(
		newAsmCmd(),
		newDisasmCmd(),
		newHashCmd(),
		newRunCmd(&configPath),
		newDebugCmd(&configPath),
	)
	return root
}
