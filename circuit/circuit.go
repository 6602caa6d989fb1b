// Package circuit wires several copies of one program into amplifier
// circuits, each amplifier feeding its outputs to the next one.
package circuit

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go.creack.net/intcode/program"
	"go.creack.net/intcode/vm"
)

// ErrNoOutput is returned when an amplifier halts without producing a signal.
var ErrNoOutput = errors.New("amplifier produced no output")

// Mode selects how the amplifiers are connected.
type Mode int

const (
	ModeChain    Mode = iota // Each amplifier runs once, in order.
	ModeFeedback             // The last amplifier feeds back into the first.
)

func (m Mode) String() string {
	switch m {
	case ModeChain:
		return "chain"
	case ModeFeedback:
		return "feedback"
	default:
		return "unknown"
	}
}

type config struct {
	log   *zap.Logger
	limit int
}

type Option func(*config)

func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.log = l }
}

// WithLimit bounds the number of circuits evaluated concurrently by MaxSignal.
func WithLimit(n int) Option {
	return func(c *config) { c.limit = n }
}

func newConfig(opts []Option) config {
	c := config{log: zap.NewNop(), limit: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Chain runs one amplifier per phase, in order. Each amplifier receives its
// phase then the previous signal, starting from 0, and the first value it
// outputs becomes the next signal.
func Chain(prog program.Program, phases []int64, opts ...Option) (int64, error) {
	cfg := newConfig(opts)

	var signal int64
	for i, phase := range phases {
		m := vm.New(prog, vm.WithLogger(cfg.log.With(zap.Int("amp", i))))
		out, err := m.Resume(phase, signal)
		if err != nil {
			return 0, fmt.Errorf("amplifier %d: %w", i, err)
		}
		if out.Kind != vm.Output {
			return 0, fmt.Errorf("amplifier %d: %w", i, ErrNoOutput)
		}
		signal = out.Value
	}
	return signal, nil
}

// Feedback runs one amplifier per phase, each in its own goroutine, the
// last one feeding back into the first. It returns the last signal emitted
// by the last amplifier once all of them halted.
// An error on any amplifier stops the whole loop.
func Feedback(ctx context.Context, prog program.Program, phases []int64, opts ...Option) (int64, error) {
	cfg := newConfig(opts)
	n := len(phases)
	if n == 0 {
		return 0, ErrNoOutput
	}

	// queues[i] feeds amplifier i.
	queues := make([]*vm.Queue, n)
	for i, phase := range phases {
		queues[i] = vm.NewQueue(phase)
	}
	queues[0].Put(0)

	var (
		last    int64
		outputs int
	)

	g, ctx := errgroup.WithContext(ctx)
	for i := range phases {
		in, next := queues[i], queues[(i+1)%n]
		g.Go(func() error {
			// Nothing more will come from this amplifier.
			defer next.Close()

			log := cfg.log.With(zap.Int("amp", i))
			m := vm.New(prog, vm.WithInput(in.Source(ctx)), vm.WithLogger(log))
			count := 0
			for v, err := range m.Outputs() {
				if err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					return fmt.Errorf("amplifier %d: %w", i, err)
				}
				count++
				next.Put(v)
				if i == n-1 {
					last = v
					outputs = count
				}
			}
			log.Debug("amplifier halted", zap.Int("outputs", count), zap.Uint64("steps", m.Steps()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	if outputs == 0 {
		return 0, ErrNoOutput
	}
	return last, nil
}

// Result is the best signal found by MaxSignal.
type Result struct {
	Signal int64
	Phases []int64
}

// MaxSignal evaluates the circuit for every ordering of phases and returns
// the one producing the highest signal. On ties, the first ordering in
// permutation order wins.
func MaxSignal(ctx context.Context, prog program.Program, phases []int64, mode Mode, opts ...Option) (Result, error) {
	cfg := newConfig(opts)

	var (
		mu      sync.Mutex
		best    Result
		bestIdx = -1
	)

	g, ctx := errgroup.WithContext(ctx)
	if cfg.limit > 0 {
		g.SetLimit(cfg.limit)
	}
	idx := 0
	for perm := range Permutations(phases) {
		i := idx
		idx++
		g.Go(func() error {
			var (
				signal int64
				err    error
			)
			switch mode {
			case ModeChain:
				signal, err = Chain(prog, perm, opts...)
			case ModeFeedback:
				signal, err = Feedback(ctx, prog, perm, opts...)
			default:
				return fmt.Errorf("unknown circuit mode %d", int(mode))
			}
			if err != nil {
				return fmt.Errorf("phases %v: %w", perm, err)
			}

			mu.Lock()
			defer mu.Unlock()
			if bestIdx == -1 || signal > best.Signal || (signal == best.Signal && i < bestIdx) {
				best, bestIdx = Result{Signal: signal, Phases: perm}, i
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if bestIdx == -1 {
		return Result{}, ErrNoOutput
	}
	cfg.log.Debug("best signal", zap.Int64("signal", best.Signal), zap.Int64s("phases", best.Phases), zap.Stringer("mode", mode))
	return best, nil
}
