package asm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.creack.net/intcode/vm"
)

const quineSrc = `
; Outputs its own code.
	arb #1
loop:	out @-1
	add 100, #1, 100
	eq  100, #16, 101
	jf  101, #0
	hlt
`

const amplifierSrc = `
	in  phase
	in  signal
	mul signal, #10, signal
	add signal, phase, phase
	out phase
	hlt
phase:	.data 0
signal:	.data 0
`

func TestAssemble(t *testing.T) {
	t.Parallel()

	prog, err := Assemble("quine.ics", quineSrc)
	require.NoError(t, err)
	assert.Equal(t, "109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99", prog.String())

	out, err := vm.New(prog).Run()
	require.NoError(t, err)
	assert.Equal(t, []int64(prog), out)

	prog, err = Assemble("amp.ics", amplifierSrc)
	require.NoError(t, err)
	assert.Equal(t, "3,15,3,16,1002,16,10,16,1,16,15,15,4,15,99,0,0", prog.String())
}

func TestCompileLabels(t *testing.T) {
	t.Parallel()

	_, pr, err := Compile("amp.ics", amplifierSrc)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"phase": 15, "signal": 16}, pr.Labels())
	assert.Equal(t, 17, pr.Size())
}

func TestLabelExpressions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"offset", "out x+1\nhlt\nx: .data 5, 6", "4,4,99,5,6"},
		{"spaced offset", "out x + 1\nhlt\nx: .data 5, 6", "4,4,99,5,6"},
		{"negative offset", "out y - 1\nhlt\nx: .data 5\ny: .data 6", "4,3,99,5,6"},
		{"label difference", ".data end-start\nstart: hlt\nend: .data 0", "1,99,0"},
		{"negated label", "out #-x\nx: hlt", "104,-2,99"},
		{"hex", "out #0x10\nhlt", "104,16,99"},
		{"forward jump", "jt #1, #end\nhlt\nend: hlt", "1105,1,4,99,99"},
		{"relative", "arb #5\nout @-5\nhlt", "109,5,204,-5,99"},
		{"label alone on line", "a:\nb:\n\tout a\n\thlt", "4,0,99"},
		{"crlf", "out #1\r\nhlt\r\n", "104,1,99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			prog, err := Assemble("test.ics", tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, prog.String())
		})
	}
}

func TestAssembleErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"immediate write", "add 1, 2, #3", "test.ics:1:"},
		{"immediate input", "\n\nin #3", "test.ics:3:"},
		{"unknown instruction", "foo 1", `unknown instruction "foo"`},
		{"missing parameter", "out", "expected 1 parameters, got 0"},
		{"extra parameter", "hlt 1", "expected 0 parameters, got 1"},
		{"unknown label", "out x", `unknown label "x"`},
		{"duplicate label", "a: hlt\na: hlt", `duplicate label "a", first defined on line 1`},
		{"mode in data", ".data #1", "unexpected immediate mode prefix"},
		{"unknown directive", ".bss 1", `unknown directive ".bss"`},
		{"empty data", ".data", "expects at least one value"},
		{"trailing comma", "out 1,", "unexpected comma"},
		{"missing comma", "add 1 2 3", "unexpected token"},
		{"bad character", "out $1", "unexpected character"},
		{"bad number", "out #0xZZ+1", `unknown label "0xZZ"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Assemble("test.ics", tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	out, err := Format("test.ics", "a:   out  #1 ; hi\n  in @2\nb: c: hlt\n.data a, -1, b+2")
	require.NoError(t, err)
	assert.Equal(t, "a:\n\tout #1\n\tin  @2\n\nb:\nc:\n\thlt\n\t.data a, -1, b+2\n", out)

	// Formatted source assembles the same.
	want, err := Assemble("a", quineSrc)
	require.NoError(t, err)
	formatted, err := Format("a", quineSrc)
	require.NoError(t, err)
	got, err := Assemble("b", formatted)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAssembleFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "quine.ics")
	require.NoError(t, os.WriteFile(path, []byte(quineSrc), 0o600))
	prog, err := AssembleFile(path)
	require.NoError(t, err)
	assert.Len(t, prog, 16)

	_, err = AssembleFile(filepath.Join(t.TempDir(), "missing.ics"))
	require.Error(t, err)
}
