// Package program loads Intcode programs: comma-separated decimal integers
// forming the initial memory image of a machine.
package program

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.creack.net/intcode/op"
)

// Program is the initial memory image of a machine.
// It is never mutated once loaded, use Clone to derive a new one.
type Program []int64

// Parse reads a comma-separated list of optionally signed integers.
// Whitespace around values and a trailing separator are tolerated.
func Parse(text string) (Program, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("empty program")
	}
	fields := strings.Split(text, string(op.SeparatorChar))
	// Allow a trailing separator, e.g. "1,0,0,0,99,".
	if strings.TrimSpace(fields[len(fields)-1]) == "" {
		fields = fields[:len(fields)-1]
	}
	p := make(Program, 0, len(fields))
	for i, elem := range fields {
		n, err := strconv.ParseInt(strings.TrimSpace(elem), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value at index %d: %w", i, err)
		}
		p = append(p, n)
	}
	return p, nil
}

// MustParse is like Parse but panics on error.
// Useful for programs embedded in the source.
func MustParse(text string) Program {
	p, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return p
}

// Load reads and parses the program file at the given path.
func Load(path string) (Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}
	p, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	return p, nil
}

// Clone returns a copy of the program.
func (p Program) Clone() Program {
	out := make(Program, len(p))
	copy(out, p)
	return out
}

// Patch returns a copy of the program with the given cell replaced.
// Cells past the end are zero filled.
func (p Program) Patch(addr int, value int64) Program {
	out := p.Clone()
	for len(out) <= addr {
		out = append(out, 0)
	}
	out[addr] = value
	return out
}

// String formats the program back to its text form.
func (p Program) String() string {
	buf := &strings.Builder{}
	for i, elem := range p {
		if i != 0 {
			buf.WriteByte(op.SeparatorChar)
		}
		buf.WriteString(strconv.FormatInt(elem, 10))
	}
	return buf.String()
}
