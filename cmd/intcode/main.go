package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"go.creack.net/intcode/ascii"
	"go.creack.net/intcode/circuit"
	"go.creack.net/intcode/cli"
	"go.creack.net/intcode/program"
	"go.creack.net/intcode/vm"
)

// Number of instructions executed between two context checks.
const checkEvery = 4096

func newLogger(cfg cli.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Verbose || cfg.Trace {
		zcfg = zap.NewDevelopmentConfig()
	}
	return zcfg.Build()
}

// readInput reads the next line from stdin once the configured inputs
// are consumed.
func readInput(in *bufio.Scanner, asciiMode bool) ([]int64, error) {
	if !in.Scan() {
		if err := in.Err(); err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		return nil, fmt.Errorf("%w: end of stdin", vm.ErrInputExhausted)
	}
	if asciiMode {
		return ascii.Command(in.Text())
	}
	values, err := program.Parse(in.Text())
	if err != nil {
		return nil, fmt.Errorf("invalid input line: %w", err)
	}
	return values, nil
}

// execute runs m until it halts. Pending output is flushed before blocking
// on stdin so prompts are visible.
func execute(ctx context.Context, m *vm.Machine, in *bufio.Scanner, w *bufio.Writer, asciiMode bool) error {
	for i := 0; ; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("stopped at pc %d after %d steps: %w", m.PC(), m.Steps(), err)
			}
		}
		ev, err := m.Step()
		if errors.Is(err, vm.ErrInputExhausted) {
			if err := w.Flush(); err != nil {
				return fmt.Errorf("failed to flush output: %w", err)
			}
			values, err := readInput(in, asciiMode)
			if err != nil {
				return err
			}
			m.SetInput(vm.Values(values...))
			continue
		}
		if err != nil {
			return err
		}
		switch ev.Outcome.Kind {
		case vm.Output:
			if asciiMode {
				err = ascii.Write(w, []int64{ev.Outcome.Value})
			} else {
				_, err = fmt.Fprintln(w, ev.Outcome.Value)
			}
			if err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		case vm.Halted:
			return nil
		}
	}
}

func run(ctx context.Context, cfg cli.Config, log *zap.Logger) error {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	cache := program.NewCache(program.DefaultCacheSize)
	p, err := cfg.LoadProgram(cache)
	if err != nil {
		return err
	}
	log.Debug("program loaded", zap.String("name", cfg.Name()), zap.Int("size", len(p)), zap.Stringer("digest", p.Digest()))

	vmLog := zap.NewNop()
	if cfg.Trace {
		vmLog = log
	}

	if cfg.Circuit != "" {
		mode, err := cfg.CircuitMode()
		if err != nil {
			return err
		}
		res, err := circuit.MaxSignal(ctx, p, cfg.Phases, mode, circuit.WithLogger(vmLog))
		if err != nil {
			return fmt.Errorf("failed to search %s circuit: %w", mode, err)
		}
		fmt.Printf("%d (phases %v)\n", res.Signal, res.Phases)
		return nil
	}

	inputs, err := cfg.InputValues()
	if err != nil {
		return err
	}
	m := vm.New(p, vm.WithInput(vm.Values(inputs...)), vm.WithLogger(vmLog))
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	if err := execute(ctx, m, bufio.NewScanner(os.Stdin), w, len(cfg.ASCII) > 0); err != nil {
		return fmt.Errorf("failed to run %q: %w", cfg.Name(), err)
	}
	log.Debug("done", zap.Uint64("steps", m.Steps()), zap.Int("memory", m.Memory().Len()))
	return nil
}

func main() {
	cfg, err := cli.ParseConfig(os.Args[0], os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse CLI config: %s.\n", err)
		os.Exit(2)
	}
	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %s.\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("fail", zap.Error(err))
		stop()
		_ = log.Sync()
		os.Exit(1)
	}
}
