// Package cli provides the configuration of the runner commands: flags,
// an optional TOML file and program loading.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"go.creack.net/intcode/ascii"
	"go.creack.net/intcode/asm"
	"go.creack.net/intcode/assets"
	"go.creack.net/intcode/circuit"
	"go.creack.net/intcode/op"
	"go.creack.net/intcode/program"
)

// Patch replaces a memory cell before the program starts.
type Patch struct {
	Addr  int   `toml:"addr"`
	Value int64 `toml:"value"`
}

func (p Patch) String() string { return fmt.Sprintf("%d=%d", p.Addr, p.Value) }

type Config struct {
	Program string   `toml:"program"` // Path to a program or an assembly source.
	Example string   `toml:"example"` // Name of an embedded program, instead of Program.
	Inputs  []int64  `toml:"inputs"`
	ASCII   []string `toml:"ascii"` // Lines sent as ASCII input, after Inputs.
	Patches []Patch  `toml:"patch"`

	Circuit string        `toml:"circuit"` // Empty, "chain" or "feedback".
	Phases  []int64       `toml:"phases"`
	Timeout time.Duration `toml:"timeout"`

	Trace   bool `toml:"trace"`
	Verbose bool `toml:"verbose"`
}

// LoadFile decodes a TOML config file.
func LoadFile(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to decode config %q: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown keys in config %q: %v", path, undecoded)
	}
	return cfg, nil
}

// int64List is a flag accepting comma separated values, repeatable.
type int64List []int64

func (l *int64List) String() string { return program.Program(*l).String() }

func (l *int64List) Set(s string) error {
	p, err := program.Parse(s)
	if err != nil {
		return err
	}
	*l = append(*l, p...)
	return nil
}

type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ", ") }

func (l *stringList) Set(s string) error {
	*l = append(*l, s)
	return nil
}

type patchList []Patch

func (l *patchList) String() string {
	strs := make([]string, 0, len(*l))
	for _, p := range *l {
		strs = append(strs, p.String())
	}
	return strings.Join(strs, ",")
}

func (l *patchList) Set(s string) error {
	addr, value, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("invalid patch %q, expect addr=value", s)
	}
	a, err := strconv.Atoi(strings.TrimSpace(addr))
	if err != nil {
		return fmt.Errorf("invalid patch address %q: %w", addr, err)
	}
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid patch value %q: %w", value, err)
	}
	*l = append(*l, Patch{Addr: a, Value: v})
	return nil
}

// ParseConfig builds the config from the command line. Values from the
// -c config file are overridden by the flags set explicitly.
func ParseConfig(name string, args []string) (Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	var (
		flagCfg    Config
		inputs     int64List
		asciiLines stringList
		patches    patchList
		phases     int64List
	)
	configPath := fs.String("c", "", "TOML config file")
	fs.StringVar(&flagCfg.Example, "example", "", "run an embedded program: "+strings.Join(assets.Names(), ", "))
	fs.Var(&inputs, "i", "comma separated input values, repeatable")
	fs.Var(&asciiLines, "ascii", "input line sent as ASCII, repeatable")
	fs.Var(&patches, "p", "patch memory before running, addr=value, repeatable")
	fs.StringVar(&flagCfg.Circuit, "circuit", "", "search the best amplifier circuit: chain or feedback")
	fs.Var(&phases, "phases", "comma separated phase settings for -circuit")
	fs.DurationVar(&flagCfg.Timeout, "timeout", 0, "stop after this duration, 0 for none")
	fs.BoolVar(&flagCfg.Trace, "trace", false, "log every executed instruction")
	fs.BoolVar(&flagCfg.Verbose, "v", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: %s [options] <program%s|source%s>\n", name, op.ProgramExt, op.AssemblySrcExt)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	var cfg Config
	if *configPath != "" {
		c, err := LoadFile(*configPath)
		if err != nil {
			return Config{}, err
		}
		cfg = c
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "example":
			cfg.Example = flagCfg.Example
		case "i":
			cfg.Inputs = inputs
		case "ascii":
			cfg.ASCII = asciiLines
		case "p":
			cfg.Patches = patches
		case "circuit":
			cfg.Circuit = flagCfg.Circuit
		case "phases":
			cfg.Phases = phases
		case "timeout":
			cfg.Timeout = flagCfg.Timeout
		case "trace":
			cfg.Trace = flagCfg.Trace
		case "v":
			cfg.Verbose = flagCfg.Verbose
		}
	})
	if fs.NArg() > 0 {
		cfg.Program = fs.Arg(0)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the consistency of the config.
func (c Config) Validate() error {
	if c.Program == "" && c.Example == "" {
		return errors.New("no program provided")
	}
	if c.Program != "" && c.Example != "" {
		return fmt.Errorf("both program %q and example %q provided", c.Program, c.Example)
	}
	for _, p := range c.Patches {
		if p.Addr < 0 {
			return fmt.Errorf("invalid patch %s: negative address", p)
		}
	}
	if _, err := c.CircuitMode(); err != nil {
		return err
	}
	if c.Circuit != "" && len(c.Phases) == 0 {
		return fmt.Errorf("circuit %q requires phases", c.Circuit)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid negative timeout %s", c.Timeout)
	}
	return nil
}

// CircuitMode returns the circuit mode. Only meaningful when Circuit is set.
func (c Config) CircuitMode() (circuit.Mode, error) {
	switch c.Circuit {
	case "", circuit.ModeChain.String():
		return circuit.ModeChain, nil
	case circuit.ModeFeedback.String():
		return circuit.ModeFeedback, nil
	default:
		return 0, fmt.Errorf("unknown circuit %q, expect %s or %s", c.Circuit, circuit.ModeChain, circuit.ModeFeedback)
	}
}

// Name returns a short name for the program.
func (c Config) Name() string {
	if c.Example != "" {
		return c.Example
	}
	name := filepath.Base(c.Program)
	name = strings.TrimSuffix(name, op.ProgramExt)
	return strings.TrimSuffix(name, op.AssemblySrcExt)
}

// LoadProgram loads the configured program, assembling it if it is a
// source file, and applies the patches.
// cache may be nil.
func (c Config) LoadProgram(cache *program.Cache) (program.Program, error) {
	var (
		p   program.Program
		err error
	)
	switch {
	case c.Example != "":
		p, err = assets.Program(c.Example)
	case strings.HasSuffix(c.Program, op.AssemblySrcExt):
		p, err = asm.AssembleFile(c.Program)
	case cache != nil:
		p, err = cache.Load(c.Program)
	default:
		p, err = program.Load(c.Program)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load program %q: %w", c.Name(), err)
	}
	for _, patch := range c.Patches {
		p = p.Patch(patch.Addr, patch.Value)
	}
	return p, nil
}

// InputValues returns the configured inputs followed by the ASCII lines.
func (c Config) InputValues() ([]int64, error) {
	out := append([]int64(nil), c.Inputs...)
	if len(c.ASCII) == 0 {
		return out, nil
	}
	text, err := ascii.Command(c.ASCII...)
	if err != nil {
		return nil, fmt.Errorf("invalid ascii input: %w", err)
	}
	return append(out, text...), nil
}
