package disasm

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.creack.net/intcode/asm"
	"go.creack.net/intcode/assets"
	"go.creack.net/intcode/program"
)

func TestDisassemble(t *testing.T) {
	t.Parallel()

	lines := Disassemble(program.MustParse("109,1,204,-1,1001,100,1,100,99,7"))
	require.Len(t, lines, 5)

	assert.Equal(t, "\tarb  #1", lines[0].String())
	assert.Equal(t, int64(2), lines[1].Addr)
	assert.Equal(t, "\tout  @-1", lines[1].String())
	assert.Equal(t, "\tadd  100, #1, 100", lines[2].String())
	assert.Equal(t, "\thlt", lines[3].String())
	assert.Nil(t, lines[4].Instruction)
	assert.Equal(t, "\t.data 7", lines[4].String())
	assert.Equal(t, 4, lines[2].Size())
	assert.Equal(t, 1, lines[3].Size())
	assert.Equal(t, 1, lines[4].Size())

	var addr int64
	for _, l := range lines {
		assert.Equal(t, addr, l.Addr)
		addr += int64(l.Size())
	}
	assert.Equal(t, int64(10), addr)
}

func TestDisassembleData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		prog string
		want string
	}{
		{"unknown opcode", "98,0", "\t.data 98, 0"},
		{"non canonical", "10104,1", "\t.data 10104, 1"},
		{"immediate write", "11101,1,1,1", "\t.data 11101, 1, 1, 1"},
		{"invalid mode", "304,1", "\t.data 304, 1"},
		{"truncated", "1,0,0", "\t.data 1, 0, 0"},
		{"negative", "-5", "\t.data -5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			lines := Disassemble(program.MustParse(tt.prog))
			require.Len(t, lines, 1)
			assert.Equal(t, tt.want, lines[0].String())
		})
	}

	// Long runs are split.
	lines := Disassemble(program.MustParse("0,0,0,0,0,0,0,0,0,0"))
	require.Len(t, lines, 2)
	assert.Len(t, lines[0].Values, 8)
	assert.Equal(t, int64(8), lines[1].Addr)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	progs := []string{
		"109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99",
		"3,26,1001,26,-4,26,3,27,1002,27,2,27,1,27,26,27,4,27,1001,28,-1,28,1005,28,6,99,0,0,5",
		"1102,34915192,34915192,7,4,7,99,0",
		"10104,1,98,1105,-1,22201,12345,99,0,-7,1",
		"1,2,3",
		program.Program{104, math.MinInt64, 99}.String(),
		program.Program{1101, math.MinInt64, math.MaxInt64, 0, 99}.String(),
		program.Program{math.MinInt64, math.MaxInt64}.String(),
	}
	for _, name := range assets.Names() {
		p, err := assets.Program(name)
		require.NoError(t, err)
		progs = append(progs, p.String())
	}
	for _, src := range progs {
		p := program.MustParse(src)
		listing := Format(Disassemble(p))
		got, err := asm.Assemble("listing", listing)
		require.NoError(t, err, listing)
		assert.Equal(t, p, got, listing)
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	out := Format(Disassemble(program.MustParse("104,1,99")))
	want := "\tout  #1" + strings.Repeat(" ", 20) + " ; 0000\n" +
		"\thlt" + strings.Repeat(" ", 24) + " ; 0002\n"
	assert.Equal(t, want, out)
}

func TestDisasmKnownSource(t *testing.T) {
	t.Parallel()

	p, err := assets.Program("amplifier")
	require.NoError(t, err)
	src, ok := assets.Source("amplifier")
	require.True(t, ok)
	assert.Equal(t, src, Disasm(p))

	assert.Equal(t, Format(Disassemble(program.Program{99})), Disasm(program.Program{99}))
}
