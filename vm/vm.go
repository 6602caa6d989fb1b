// Package vm implements the Intcode machine.
//
// A Machine runs until it produces an output or halts, then suspends with
// its whole state intact so the caller can inspect the value, feed more
// inputs and resume it later.
package vm

import (
	"errors"
	"fmt"
	"iter"

	"go.uber.org/zap"

	"go.creack.net/intcode/op"
	"go.creack.net/intcode/program"
)

// State is the execution state of a Machine.
type State int

const (
	StateReady         State = iota // Fresh or reset, nothing executed yet.
	StateRunning                    // Stopped between two instructions by Step.
	StateSuspended                  // Stopped right after an output.
	StateAwaitingInput              // Stopped on an input instruction with no value available.
	StateHalted
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "Ready"
	case StateRunning:
		return "Running"
	case StateSuspended:
		return "Suspended"
	case StateAwaitingInput:
		return "Awaiting Input"
	case StateHalted:
		return "Halted"
	case StateFaulted:
		return "Faulted"
	default:
		return "Unknown"
	}
}

// OutcomeKind tells why the machine stopped.
type OutcomeKind int

const (
	Continue OutcomeKind = iota // Only reported by Step.
	Output
	Halted
)

func (k OutcomeKind) String() string {
	switch k {
	case Continue:
		return "continue"
	case Output:
		return "output"
	case Halted:
		return "halted"
	default:
		return "unknown"
	}
}

// Outcome is the result of a Resume call.
type Outcome struct {
	Kind  OutcomeKind
	Value int64 // Set when Kind is Output.
}

func (o Outcome) String() string {
	if o.Kind == Output {
		return fmt.Sprintf("output(%d)", o.Value)
	}
	return o.Kind.String()
}

// Event describes the instruction executed by a single Step.
type Event struct {
	PC          int64
	Instruction op.Instruction
	Outcome     Outcome
}

// Machine is an Intcode virtual machine running a single program.
type Machine struct {
	prog program.Program
	mem  *Memory

	pc      int64
	relBase int64
	steps   uint64

	pending []int64 // Queued inputs, consumed in order.
	input   InputSource

	state State
	fault *Fault

	// messages, when set, receives the machine events.
	// Needs to be consumed otherwise the machine will block.
	messages chan<- Message
	log      *zap.Logger
}

// Option configures a Machine created by New.
type Option func(*Machine)

// WithInput sets the provider asked for a value before the queued inputs.
func WithInput(src InputSource) Option {
	return func(m *Machine) { m.input = src }
}

// WithMessages sets the channel receiving the machine events.
func WithMessages(ch chan<- Message) Option {
	return func(m *Machine) { m.messages = ch }
}

// WithLogger sets the logger used for instruction traces.
func WithLogger(l *zap.Logger) Option {
	return func(m *Machine) { m.log = l }
}

// New returns a machine ready to run a copy of prog.
func New(prog program.Program, opts ...Option) *Machine {
	m := &Machine{
		prog: prog.Clone(),
		mem:  NewMemory(prog),
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Reset restores the machine to its initial state: memory back to the
// program, registers zeroed and pending inputs dropped.
// The input provider and the messages channel are kept.
func (m *Machine) Reset() {
	m.mem.Load(m.prog)
	m.pc, m.relBase, m.steps = 0, 0, 0
	m.pending = nil
	m.state = StateReady
	m.fault = nil
	m.emit(MsgReset, 0, 0, "reset")
}

// SetInput replaces the input provider. nil removes it.
func (m *Machine) SetInput(src InputSource) { m.input = src }

// Resume queues the given inputs and runs the machine until it produces an
// output or halts. Resuming a halted machine reports Halted again.
//
// When an input instruction has no value available, Resume returns
// ErrInputExhausted and the machine can be resumed with more inputs.
// Any other error is a *Fault and the machine must be Reset.
func (m *Machine) Resume(inputs ...int64) (Outcome, error) {
	m.pending = append(m.pending, inputs...)
	for {
		ev, err := m.Step()
		if err != nil {
			return Outcome{}, err
		}
		if ev.Outcome.Kind != Continue {
			return ev.Outcome, nil
		}
	}
}

// Step executes a single instruction.
func (m *Machine) Step() (Event, error) {
	switch m.state {
	case StateHalted:
		return Event{PC: m.pc, Outcome: Outcome{Kind: Halted}}, nil
	case StateFaulted:
		return Event{PC: m.pc}, m.fault
	}

	pc := m.pc
	word := m.mem.Get(pc)
	ins, err := op.Decode(word)
	if err != nil {
		return Event{PC: pc}, m.setFault(pc, word, fmt.Errorf("%w: %w", ErrMalformedProgram, err))
	}
	if ce := m.log.Check(zap.DebugLevel, "exec"); ce != nil {
		ce.Write(zap.Int64("pc", pc), zap.Int64("rb", m.relBase), zap.Stringer("ins", ins), zap.Int64s("params", m.mem.Slice(pc+1, pc+int64(ins.Size()))))
	}
	if m.messages != nil {
		m.emit(MsgDebug, pc, 0, fmt.Sprintf("%s %v", ins.OpCode.Name, m.mem.Slice(pc+1, pc+int64(ins.Size()))))
	}

	out, err := ops[ins.OpCode.Code](m, ins)
	if err != nil {
		if errors.Is(err, ErrInputExhausted) {
			m.state = StateAwaitingInput
			m.emit(MsgAwaitInput, pc, 0, "waiting for input")
			return Event{PC: pc, Instruction: ins}, err
		}
		return Event{PC: pc, Instruction: ins}, m.setFault(pc, word, err)
	}
	m.steps++

	switch out.Kind {
	case Output:
		m.state = StateSuspended
		m.emit(MsgOutput, pc, out.Value, fmt.Sprintf("output %d", out.Value))
	case Halted:
		m.state = StateHalted
		m.emit(MsgHalt, pc, 0, "halted")
		m.log.Debug("halted", zap.Int64("pc", pc), zap.Uint64("steps", m.steps))
	default:
		m.state = StateRunning
	}
	return Event{PC: pc, Instruction: ins, Outcome: out}, nil
}

// Outputs returns an iterator over the outputs produced until the machine
// halts. The iteration stops on the first error, which is yielded.
func (m *Machine) Outputs(inputs ...int64) iter.Seq2[int64, error] {
	return func(yield func(int64, error) bool) {
		out, err := m.Resume(inputs...)
		for {
			if err != nil {
				yield(0, err)
				return
			}
			if out.Kind == Halted {
				return
			}
			if !yield(out.Value, nil) {
				return
			}
			out, err = m.Resume()
		}
	}
}

// Run runs the machine until it halts and returns all the outputs.
// On error, the outputs produced so far are returned along with it.
func (m *Machine) Run(inputs ...int64) ([]int64, error) {
	var outputs []int64
	for v, err := range m.Outputs(inputs...) {
		if err != nil {
			return outputs, err
		}
		outputs = append(outputs, v)
	}
	return outputs, nil
}

// Peek returns the value at addr without side effects.
func (m *Machine) Peek(addr int64) int64 { return m.mem.Get(addr) }

// Poke stores value at addr. Negative addresses are rejected.
func (m *Machine) Poke(addr, value int64) error {
	if addr < 0 {
		return fmt.Errorf("%w %d", ErrInvalidAddress, addr)
	}
	m.mem.Set(addr, value)
	return nil
}

func (m *Machine) PC() int64                { return m.pc }
func (m *Machine) RelativeBase() int64      { return m.relBase }
func (m *Machine) State() State             { return m.state }
func (m *Machine) Memory() *Memory          { return m.mem }
func (m *Machine) Steps() uint64            { return m.steps }
func (m *Machine) Program() program.Program { return m.prog }

// Pending returns the number of queued inputs not consumed yet.
func (m *Machine) Pending() int { return len(m.pending) }

// Err returns the fault that stopped the machine, if any.
func (m *Machine) Err() error {
	if m.fault == nil {
		return nil
	}
	return m.fault
}

func (m *Machine) setFault(pc, word int64, err error) error {
	m.fault = &Fault{Err: err, PC: pc, Word: word}
	m.state = StateFaulted
	m.emit(MsgError, pc, 0, m.fault.Error())
	m.log.Debug("fault", zap.Error(m.fault))
	return m.fault
}

func (m *Machine) emit(mt MessageType, pc, value int64, msg string) {
	if m.messages == nil {
		return
	}
	m.messages <- NewMessage(mt, pc, value, msg)
}

// nextInput asks the provider first, then falls back on the queued inputs.
func (m *Machine) nextInput() (int64, bool) {
	if m.input != nil {
		if v, ok := m.input.NextInput(); ok {
			return v, true
		}
	}
	if len(m.pending) == 0 {
		return 0, false
	}
	v := m.pending[0]
	m.pending = m.pending[1:]
	return v, true
}
