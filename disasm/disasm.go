// Package disasm turns programs back into assembly source.
package disasm

import (
	"fmt"
	"strconv"
	"strings"

	"go.creack.net/intcode/assets"
	"go.creack.net/intcode/op"
	"go.creack.net/intcode/program"
)

// maxDataPerLine bounds the number of values of a generated `.data` line.
const maxDataPerLine = 8

// Line is a decoded statement.
type Line struct {
	Addr int64
	// Instruction is nil for raw data.
	Instruction *op.Instruction
	// Values holds the parameters of the instruction or the raw data.
	Values []int64
}

// Size returns the number of cells covered by the line.
func (l Line) Size() int {
	if l.Instruction != nil {
		return 1 + len(l.Values)
	}
	return len(l.Values)
}

func (l Line) String() string {
	strs := make([]string, 0, len(l.Values))
	if l.Instruction == nil {
		for _, v := range l.Values {
			strs = append(strs, strconv.FormatInt(v, 10))
		}
		return fmt.Sprintf("\t%s %s", op.DataDirective, strings.Join(strs, string(op.SeparatorChar)+" "))
	}
	if len(l.Values) == 0 {
		return "\t" + l.Instruction.OpCode.Name
	}
	for i, v := range l.Values {
		strs = append(strs, l.Instruction.Modes[i].Prefix()+strconv.FormatInt(v, 10))
	}
	return fmt.Sprintf("\t%-4s %s", l.Instruction.OpCode.Name, strings.Join(strs, string(op.SeparatorChar)+" "))
}

// decodeAt returns the instruction at addr if the cells there are a
// well formed instruction the assembler would produce.
func decodeAt(p program.Program, addr int) (op.Instruction, bool) {
	ins, err := op.Decode(p[addr])
	if err != nil || !ins.Canonical() || addr+ins.Size() > len(p) {
		return op.Instruction{}, false
	}
	for i, kind := range ins.OpCode.Params {
		if !kind.Allows(ins.Modes[i]) {
			return op.Instruction{}, false
		}
	}
	return ins, true
}

// Disassemble decodes the program linearly. Cells that are not a valid
// instruction become data, grouped in runs.
func Disassemble(p program.Program) []Line {
	var lines []Line
	for addr := 0; addr < len(p); {
		ins, ok := decodeAt(p, addr)
		if !ok {
			// Extend the previous data line when possible.
			if n := len(lines); n > 0 && lines[n-1].Instruction == nil && len(lines[n-1].Values) < maxDataPerLine {
				lines[n-1].Values = append(lines[n-1].Values, p[addr])
			} else {
				lines = append(lines, Line{Addr: int64(addr), Values: []int64{p[addr]}})
			}
			addr++
			continue
		}
		size := ins.Size()
		lines = append(lines, Line{
			Addr:        int64(addr),
			Instruction: &ins,
			Values:      append([]int64(nil), p[addr+1:addr+size]...),
		})
		addr += size
	}
	return lines
}

// Format returns the assembly source of the lines, each one annotated
// with its address.
func Format(lines []Line) string {
	var sb strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&sb, "%-28s %c %04d\n", l.String(), op.CommentChar, l.Addr)
	}
	return sb.String()
}

// Disasm returns the source of p. Embedded sample programs get their
// original source back, others a generated listing.
func Disasm(p program.Program) string {
	if _, src, ok := assets.Lookup(p); ok {
		return src
	}
	return Format(Disassemble(p))
}
