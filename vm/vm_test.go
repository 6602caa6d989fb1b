package vm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.creack.net/intcode/program"
)

const quine = "109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99"

func TestMemoryPrograms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prog string
		want string
	}{
		{"1,0,0,0,99", "2,0,0,0,99"},
		{"2,3,0,3,99", "2,3,0,6,99"},
		{"2,4,4,5,99,0", "2,4,4,5,99,9801"},
		{"1,1,1,4,99,5,6,0,99", "30,1,1,4,2,5,6,0,99"},
		{"1,9,10,3,2,3,11,0,99,30,40,50", "3500,9,10,70,2,3,11,0,99,30,40,50"},
		{"1002,4,3,4,33", "1002,4,3,4,99"},
		{"1101,100,-1,4,0", "1101,100,-1,4,99"},
	}
	for _, tt := range tests {
		t.Run(tt.prog, func(t *testing.T) {
			t.Parallel()
			m := New(program.MustParse(tt.prog))
			out, err := m.Run()
			require.NoError(t, err)
			assert.Empty(t, out)
			assert.Equal(t, tt.want, m.Memory().Snapshot().String())
			assert.Equal(t, StateHalted, m.State())
		})
	}
}

func TestComparisons(t *testing.T) {
	t.Parallel()

	const larger = "3,21,1008,21,8,20,1005,20,22,107,8,21,20,1006,20,31," +
		"1106,0,36,98,0,0,1002,21,125,20,4,20,1105,1,46,104," +
		"999,1105,1,46,1101,1000,1,20,4,20,1105,1,46,98,99"

	tests := []struct {
		name  string
		prog  string
		input int64
		want  int64
	}{
		{"eq position equal", "3,9,8,9,10,9,4,9,99,-1,8", 8, 1},
		{"eq position different", "3,9,8,9,10,9,4,9,99,-1,8", 7, 0},
		{"lt position", "3,9,7,9,10,9,4,9,99,-1,8", 5, 1},
		{"eq immediate", "3,3,1108,-1,8,3,4,3,99", 8, 1},
		{"lt immediate", "3,3,1107,-1,8,3,4,3,99", 9, 0},
		{"jump position zero", "3,12,6,12,15,1,13,14,13,4,13,99,-1,0,1,9", 0, 0},
		{"jump position non zero", "3,12,6,12,15,1,13,14,13,4,13,99,-1,0,1,9", 3, 1},
		{"jump immediate zero", "3,3,1105,-1,9,1101,0,0,12,4,12,99,1", 0, 0},
		{"jump immediate non zero", "3,3,1105,-1,9,1101,0,0,12,4,12,99,1", -4, 1},
		{"below 8", larger, 7, 999},
		{"equal 8", larger, 8, 1000},
		{"above 8", larger, 9, 1001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := New(program.MustParse(tt.prog)).Run(tt.input)
			require.NoError(t, err)
			assert.Equal(t, []int64{tt.want}, out)
		})
	}
}

func TestQuine(t *testing.T) {
	t.Parallel()

	prog := program.MustParse(quine)
	out, err := New(prog).Run()
	require.NoError(t, err)
	assert.Equal(t, []int64(prog), out)
}

func TestLargeNumbers(t *testing.T) {
	t.Parallel()

	out, err := New(program.MustParse("1102,34915192,34915192,7,4,7,99,0")).Run()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(1219070632396864), out[0])

	out, err = New(program.MustParse("104,1125899906842624,99")).Run()
	require.NoError(t, err)
	assert.Equal(t, []int64{1125899906842624}, out)
}

func TestFarAddress(t *testing.T) {
	t.Parallel()

	m := New(program.MustParse("1101,7,0,1000000,4,1000000,99"))
	out, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, out)
	assert.Equal(t, int64(7), m.Peek(1000000))
	assert.Equal(t, int64(0), m.Peek(999999))
	assert.Equal(t, int64(1000001), m.Memory().Extent())

	// Same through relative mode.
	out, err = New(program.MustParse("109,2000,21101,3,4,0,204,0,99")).Run()
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, out)
}

func TestRelativeMatchesPosition(t *testing.T) {
	t.Parallel()

	// Write 11 at 50, read it back with position mode, then with
	// relative mode from a base of 45.
	m := New(program.MustParse("1101,5,6,50,4,50,109,45,204,5,99"))
	out, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, []int64{11, 11}, out)
	assert.Equal(t, int64(45), m.RelativeBase())
}

func TestResumeIsTransparent(t *testing.T) {
	t.Parallel()

	prog := program.MustParse(quine)
	want, err := New(prog).Run()
	require.NoError(t, err)

	m := New(prog)
	var got []int64
	for {
		out, err := m.Resume()
		require.NoError(t, err)
		if out.Kind == Halted {
			break
		}
		require.Equal(t, Output, out.Kind)
		require.Equal(t, StateSuspended, m.State())
		got = append(got, out.Value)
	}
	assert.Equal(t, want, got)

	// Halted is sticky.
	out, err := m.Resume(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, Halted, out.Kind)
}

func TestReset(t *testing.T) {
	t.Parallel()

	const prog = "3,9,8,9,10,9,4,9,99,-1,8"
	m := New(program.MustParse(prog))

	first, err := m.Run(8)
	require.NoError(t, err)
	assert.NotEqual(t, prog, m.Memory().Snapshot().String())

	m.Reset()
	assert.Equal(t, StateReady, m.State())
	assert.Equal(t, int64(0), m.PC())
	assert.Equal(t, uint64(0), m.Steps())
	assert.Equal(t, prog, m.Memory().Snapshot().String())

	second, err := m.Run(8)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Pending inputs are dropped.
	m.Reset()
	_, err = m.Resume()
	require.ErrorIs(t, err, ErrInputExhausted)
	m.Reset()
	assert.Equal(t, 0, m.Pending())
}

func TestResetDoesNotAliasProgram(t *testing.T) {
	t.Parallel()

	prog := program.MustParse("1,0,0,0,99")
	m := New(prog)
	_, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, "1,0,0,0,99", prog.String())
	assert.Equal(t, int64(2), m.Peek(0))
}

func TestInputExhausted(t *testing.T) {
	t.Parallel()

	m := New(program.MustParse("3,0,4,0,99"))

	_, err := m.Resume()
	require.ErrorIs(t, err, ErrInputExhausted)
	var fault *Fault
	assert.False(t, errors.As(err, &fault))
	assert.Equal(t, StateAwaitingInput, m.State())
	assert.Equal(t, int64(0), m.PC())
	assert.NoError(t, m.Err())

	out, err := m.Resume(42)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Kind: Output, Value: 42}, out)

	out, err = m.Resume()
	require.NoError(t, err)
	assert.Equal(t, Halted, out.Kind)
}

func TestInputsPersistAcrossResume(t *testing.T) {
	t.Parallel()

	// Echo two values.
	m := New(program.MustParse("3,0,4,0,3,0,4,0,99"))
	out, err := m.Resume(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Value)
	assert.Equal(t, 1, m.Pending())

	out, err = m.Resume()
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Value)
	assert.Equal(t, 0, m.Pending())
}

func TestInputProviderFirst(t *testing.T) {
	t.Parallel()

	m := New(program.MustParse("3,0,3,1,4,0,4,1,99"), WithInput(Values(1)))
	out, err := m.Run(2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, out)

	// A provider can be swapped.
	m.Reset()
	calls := 0
	m.SetInput(InputFunc(func() (int64, bool) {
		calls++
		return int64(10 * calls), true
	}))
	out, err = m.Run(2)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20}, out)
	assert.Equal(t, 1, m.Pending())
}

func TestFaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		prog string
		err  error
		pc   int64
		word int64
	}{
		{"unknown opcode", "98", ErrMalformedProgram, 0, 98},
		{"unknown opcode after output", "104,1,42", ErrMalformedProgram, 2, 42},
		{"negative word", "-1", ErrMalformedProgram, 0, -1},
		{"invalid mode", "301,0,0,0,99", ErrMalformedProgram, 0, 301},
		{"immediate write", "11101,1,1,0,99", ErrIllegalWrite, 0, 11101},
		{"immediate input", "103,0,99", ErrIllegalWrite, 0, 103},
		{"negative jump", "1105,1,-1", ErrOutOfRangeJump, 0, 1105},
		{"negative read", "4,-1,99", ErrInvalidAddress, 0, 4},
		{"negative relative write", "109,-5,21101,1,1,0,99", ErrInvalidAddress, 2, 21101},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := New(program.MustParse(tt.prog))
			_, err := m.Run(1)
			require.ErrorIs(t, err, tt.err)

			var fault *Fault
			require.ErrorAs(t, err, &fault)
			assert.Equal(t, tt.pc, fault.PC)
			assert.Equal(t, tt.word, fault.Word)
			assert.Equal(t, StateFaulted, m.State())

			// The fault sticks until reset.
			_, err2 := m.Resume()
			assert.Same(t, fault, err2)
			assert.Same(t, fault, m.Err())

			m.Reset()
			assert.Equal(t, StateReady, m.State())
			assert.NoError(t, m.Err())
		})
	}
}

func TestUnknownOpcodeIsAlsoDecodeError(t *testing.T) {
	t.Parallel()

	_, err := New(program.MustParse("98")).Resume()
	require.ErrorIs(t, err, ErrMalformedProgram)
	assert.Contains(t, err.Error(), "unknown opcode")
}

func TestStep(t *testing.T) {
	t.Parallel()

	m := New(program.MustParse("1101,1,2,5,99"))
	ev, err := m.Step()
	require.NoError(t, err)
	assert.Equal(t, int64(0), ev.PC)
	assert.Equal(t, "add", ev.Instruction.OpCode.Name)
	assert.Equal(t, Continue, ev.Outcome.Kind)
	assert.Equal(t, int64(4), m.PC())
	assert.Equal(t, StateRunning, m.State())
	assert.Equal(t, int64(3), m.Peek(5))

	addr, ok := m.Memory().LastWrite()
	require.True(t, ok)
	assert.Equal(t, int64(5), addr)

	ev, err = m.Step()
	require.NoError(t, err)
	assert.Equal(t, Halted, ev.Outcome.Kind)
	assert.Equal(t, int64(4), m.PC())
	assert.Equal(t, uint64(2), m.Steps())
}

func TestOutputsBreak(t *testing.T) {
	t.Parallel()

	m := New(program.MustParse(quine))
	var got []int64
	for v, err := range m.Outputs() {
		require.NoError(t, err)
		got = append(got, v)
		if len(got) == 3 {
			break
		}
	}
	assert.Equal(t, []int64{109, 1, 204}, got)
	assert.Equal(t, StateSuspended, m.State())

	// Picks up where it stopped.
	rest, err := m.Run()
	require.NoError(t, err)
	assert.Len(t, rest, 13)
}

func TestRunReturnsPartialOutputs(t *testing.T) {
	t.Parallel()

	out, err := New(program.MustParse("104,1,104,2,3,0,99")).Run()
	require.ErrorIs(t, err, ErrInputExhausted)
	assert.Equal(t, []int64{1, 2}, out)
}

func TestPoke(t *testing.T) {
	t.Parallel()

	m := New(program.MustParse("1,0,0,0,99"))
	require.NoError(t, m.Poke(1, 4))
	require.NoError(t, m.Poke(2, 4))
	_, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, int64(198), m.Peek(0))

	require.ErrorIs(t, m.Poke(-1, 0), ErrInvalidAddress)
}

func TestMessages(t *testing.T) {
	t.Parallel()

	ch := make(chan Message, 16)
	m := New(program.MustParse("3,0,4,0,99"), WithMessages(ch))
	out, err := m.Run(5)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, out)
	close(ch)

	var types []MessageType
	var values []int64
	for msg := range ch {
		types = append(types, msg.Type)
		if msg.Type == MsgInput || msg.Type == MsgOutput {
			values = append(values, msg.Value)
		}
	}
	assert.Equal(t, []MessageType{MsgDebug, MsgInput, MsgDebug, MsgOutput, MsgDebug, MsgHalt}, types)
	assert.Equal(t, []int64{5, 5}, values)
}

func TestMessagesOnFault(t *testing.T) {
	t.Parallel()

	ch := make(chan Message, 16)
	m := New(program.MustParse("3,0,98"), WithMessages(ch))
	_, err := m.Resume()
	require.ErrorIs(t, err, ErrInputExhausted)
	_, err = m.Resume(1)
	require.ErrorIs(t, err, ErrMalformedProgram)
	close(ch)

	var types []MessageType
	for msg := range ch {
		types = append(types, msg.Type)
	}
	assert.Equal(t, []MessageType{MsgDebug, MsgAwaitInput, MsgDebug, MsgInput, MsgError}, types)
}
