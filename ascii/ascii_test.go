package ascii

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.creack.net/intcode/program"
	"go.creack.net/intcode/vm"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	got, err := Encode("A,B\n")
	require.NoError(t, err)
	assert.Equal(t, []int64{65, 44, 66, 10}, got)

	_, err = Encode("é")
	require.Error(t, err)
}

func TestCommand(t *testing.T) {
	t.Parallel()

	got, err := Command("NOT A J", "WALK")
	require.NoError(t, err)
	text, rest := Split(got)
	assert.Equal(t, "NOT A J\nWALK\n", text)
	assert.Empty(t, rest)
}

func TestSplit(t *testing.T) {
	t.Parallel()

	text, rest := Split([]int64{72, 105, 10, 19358416, -1})
	assert.Equal(t, "Hi\n", text)
	assert.Equal(t, []int64{19358416, -1}, rest)
}

func TestWrite(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []int64{79, 75, 10, 1000}))
	assert.Equal(t, "OK\n1000\n", buf.String())
}

func TestEchoProgram(t *testing.T) {
	t.Parallel()

	// Echoes inputs until it reads a newline, then outputs 1000.
	prog := program.MustParse("3,100,4,100,1008,100,10,101,1006,101,0,104,1000,99")
	in, err := Command("hello")
	require.NoError(t, err)

	out, err := vm.New(prog).Run(in...)
	require.NoError(t, err)
	text, rest := Split(out)
	assert.Equal(t, "hello\n", text)
	assert.Equal(t, []int64{1000}, rest)
}
