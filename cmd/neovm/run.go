package main

import (
	"context"
	"encoding/hex"

	"github.com/spf13/cobra"

	"github.com/vardthomas/neo-vm/crypto/vmcrypto"
	"github.com/vardthomas/neo-vm/errors"
	"github.com/vardthomas/neo-vm/log"
	"github.com/vardthomas/neo-vm/protocol/vm"
	"github.com/vardthomas/neo-vm/protocol/vmexec"
	"github.com/vardthomas/neo-vm/protocol/vmservice"
)

var errNotHalted = errors.New("script did not halt")

type message []byte

func (m message) GetMessage() []byte { return m }

var triggers = map[string]vmservice.Trigger{
	"verification": vmservice.Verification,
	"application":  vmservice.Application,
}

// session is an engine set up from the configuration, with what
// must be released when it is done.
type session struct {
	cfg     Config
	engine  *vm.Engine
	runtime *vmservice.Runtime
	close   func()
}

func newSession(ctx context.Context, cmd *cobra.Command, cfg Config, script []byte, trigger vmservice.Trigger) (*session, error) {
	msg, err := cfg.message()
	if err != nil {
		return nil, err
	}
	table, closeTable, err := cfg.openTable(ctx)
	if err != nil {
		return nil, err
	}
	rt := vmservice.NewRuntime(ctx, trigger)
	opts := []vm.Option{
		vm.WithScriptTable(table),
		vm.WithScriptContainer(message(msg)),
		vm.WithServices(rt.Services()),
	}
	if cfg.Engine.Trace {
		opts = append(opts, vm.WithTrace(cmd.ErrOrStderr()))
	}
	e := vm.New(vmcrypto.Crypto{}, opts...)
	e.LoadScript(script, false)

	log.Write(ctx,
		"script", hex.EncodeToString(vmcrypto.Hash160(script)),
		"max_steps", cfg.Engine.MaxSteps,
		"trigger", trigger,
		"leveldb", cfg.Scripts.LevelDB,
		"inline", len(cfg.Scripts.Inline),
	)
	return &session{cfg: cfg, engine: e, runtime: rt, close: closeTable}, nil
}

func sessionConfig(cmd *cobra.Command, configPath string, flags *engineFlags) (Config, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	flags.apply(cmd, &cfg)
	return cfg, nil
}

func newRunCmd(configPath *string) *cobra.Command {
	var (
		flags   engineFlags
		format  string
		trigger string
	)
	cmd := &cobra.Command{
		Use:   "run [flags] <hex|@file>",
		Short: "Run a script and print the resulting state and stack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sessionConfig(cmd, *configPath, &flags)
			if err != nil {
				return err
			}
			trig, ok := triggers[trigger]
			if !ok {
				return errors.WithDetailf(errConfig, "unknown trigger %q", trigger)
			}
			script, err := readScript(args[0], flags.asm)
			if err != nil {
				return err
			}
			timeout, err := cfg.timeout()
			if err != nil {
				return err
			}

			ctx := log.AddPrefixkv(cmd.Context(), "cmd", "run")
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			s, err := newSession(ctx, cmd, cfg, script, trig)
			if err != nil {
				return err
			}
			defer s.close()

			res, runErr := vmexec.Run(ctx, s.engine, vmexec.Config{
				MaxSteps: cfg.Engine.MaxSteps,
				Name:     "cli",
			})
			err = writeOutput(cmd.OutOrStdout(), format, newRunOutput(res, runErr, s.runtime.Notifications()))
			if err != nil {
				return err
			}
			if !res.State.HasFlag(vm.HALT) {
				return errors.WithDetailf(errNotHalted, "state %s", res.State)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or cbor (hex encoded)")
	cmd.Flags().StringVar(&trigger, "trigger", "application", "trigger reported to scripts: verification or application")
	return cmd
}
