package main

import (
	"context"
	"encoding/hex"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/vardthomas/neo-vm/database/pg"
	"github.com/vardthomas/neo-vm/errors"
	"github.com/vardthomas/neo-vm/protocol/vm"
	"github.com/vardthomas/neo-vm/scripttable"
)

var errConfig = errors.New("bad configuration")

// Config is the contents of a --config file.
//
//	message = "0102"
//
//	[engine]
//	max_steps = 100000
//	trace = false
//	timeout = "5s"
//
//	[scripts]
//	leveldb = "/var/lib/neovm/scripts"
//	database_url = "postgres:///neovm?sslmode=disable"
//	log_queries = false
//	cache_size = 256
//	inline = ["5193"]
type Config struct {
	Message string        `toml:"message"`
	Engine  EngineConfig  `toml:"engine"`
	Scripts ScriptsConfig `toml:"scripts"`
}

type EngineConfig struct {
	MaxSteps int    `toml:"max_steps"`
	Trace    bool   `toml:"trace"`
	Timeout  string `toml:"timeout"`
}

type ScriptsConfig struct {
	LevelDB     string   `toml:"leveldb"`
	DatabaseURL string   `toml:"database_url"`
	LogQueries  bool     `toml:"log_queries"`
	CacheSize   int      `toml:"cache_size"`
	Inline      []string `toml:"inline"`
}

func envConfig() Config {
	var cfg Config
	cfg.Engine.MaxSteps = *envMaxSteps
	cfg.Engine.Trace = *envTrace
	if *envTimeout > 0 {
		cfg.Engine.Timeout = envTimeout.String()
	}
	cfg.Scripts.LevelDB = *envScriptDB
	cfg.Scripts.DatabaseURL = *envDatabaseURL
	return cfg
}

// loadConfig starts from the environment and overlays the file at
// path, if any. Keys the file does not set keep their values.
func loadConfig(path string) (Config, error) {
	cfg := envConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.WithDetailf(errConfig, "%s: unknown key %s", path, undecoded[0])
	}
	return cfg, nil
}

// engineFlags are the flags shared by run and debug.
type engineFlags struct {
	maxSteps int
	trace    bool
	timeout  time.Duration
	message  string
	asm      bool
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxSteps, "max-steps", 0, "stop after this many instructions (0: no limit)")
	cmd.Flags().BoolVar(&f.trace, "trace", false, "trace every instruction to stderr")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "stop after this long (0: no limit)")
	cmd.Flags().StringVar(&f.message, "message", "", "hex message that signatures are checked against")
	cmd.Flags().BoolVar(&f.asm, "asm", false, "the script is assembly text, not hex")
}

// apply overlays the flags the user set on cfg.
func (f *engineFlags) apply(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	if flags.Changed("max-steps") {
		cfg.Engine.MaxSteps = f.maxSteps
	}
	if flags.Changed("trace") {
		cfg.Engine.Trace = f.trace
	}
	if flags.Changed("timeout") {
		cfg.Engine.Timeout = f.timeout.String()
	}
	if flags.Changed("message") {
		cfg.Message = f.message
	}
}

func (c *Config) timeout() (time.Duration, error) {
	if c.Engine.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Engine.Timeout)
	if err != nil {
		return 0, errors.WithDetailf(errConfig, "timeout %q", c.Engine.Timeout)
	}
	return d, nil
}

func (c *Config) message() ([]byte, error) {
	b, err := decodeHex(c.Message)
	if err != nil {
		return nil, errors.WithDetailf(errConfig, "message %q", c.Message)
	}
	return b, nil
}

// openTable builds the script table the configuration describes:
// inline scripts first, then LevelDB, then Postgres, behind a cache.
// The returned function releases the stores.
func (c *Config) openTable(ctx context.Context) (vm.ScriptTable, func(), error) {
	var (
		layers  scripttable.Layered
		closers []func()
	)
	closeAll := func() {
		for _, f := range closers {
			f()
		}
	}

	if len(c.Scripts.Inline) > 0 {
		mem := scripttable.NewMemory()
		for _, s := range c.Scripts.Inline {
			script, err := decodeHex(s)
			if err != nil {
				return nil, nil, errors.WithDetailf(errConfig, "inline script %q", s)
			}
			mem.Add(script)
		}
		layers = append(layers, mem)
	}
	if c.Scripts.LevelDB != "" {
		db, err := scripttable.OpenLevelDB(c.Scripts.LevelDB)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() { db.Close() })
		layers = append(layers, db)
	}
	if c.Scripts.DatabaseURL != "" {
		db, err := pg.Open(ctx, c.Scripts.DatabaseURL, c.Scripts.LogQueries)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() { db.Close() })
		layers = append(layers, scripttable.NewPostgres(db))
	}
	return scripttable.NewCache(layers, c.Scripts.CacheSize), closeAll, nil
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	return hex.DecodeString(s)
}
