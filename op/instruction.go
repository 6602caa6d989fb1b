package op

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownOpCode = errors.New("unknown opcode")
	ErrInvalidMode   = errors.New("invalid parameter mode")
)

// Instruction is a decoded instruction word.
type Instruction struct {
	OpCode OpCode
	Modes  [MaxParams]Mode
	Word   int64 // Raw word as found in memory.
}

// Decode splits an instruction word into its opcode and parameter modes.
// Mode digits above the opcode's parameter count are ignored.
func Decode(word int64) (Instruction, error) {
	code := Code(word % opcodeWeight)
	oc, ok := Lookup(code)
	if !ok {
		return Instruction{}, fmt.Errorf("%w %d (word %d)", ErrUnknownOpCode, int64(code), word)
	}
	ins := Instruction{OpCode: oc, Word: word}

	// The hundreds digit is the mode of the 1st parameter,
	// the thousands digit the 2nd, the ten-thousands the 3rd.
	digits := word / opcodeWeight
	for i := range oc.Params {
		m := Mode(digits % modeWeight)
		digits /= modeWeight
		if !m.Valid() {
			return Instruction{}, fmt.Errorf("%w %d for parameter %d of %q (word %d)", ErrInvalidMode, int64(m), i+1, oc.Name, word)
		}
		ins.Modes[i] = m
	}
	return ins, nil
}

// Encode returns the canonical instruction word.
func (ins Instruction) Encode() int64 {
	word := int64(ins.OpCode.Code)
	weight := int64(opcodeWeight)
	for i := range ins.OpCode.Params {
		word += int64(ins.Modes[i]) * weight
		weight *= modeWeight
	}
	return word
}

// Canonical reports whether the raw word is exactly the encoding of the
// decoded instruction, i.e. it carries no extra high digits.
func (ins Instruction) Canonical() bool { return ins.Encode() == ins.Word }

// Size returns the number of memory cells used by the instruction.
func (ins Instruction) Size() int { return ins.OpCode.Size() }

// Mode returns the mode of the i-th parameter (0 based).
func (ins Instruction) Mode(i int) Mode { return ins.Modes[i] }

func (ins Instruction) String() string {
	out := "<" + ins.OpCode.Name
	modes := make([]string, 0, len(ins.OpCode.Params))
	for i := range ins.OpCode.Params {
		modes = append(modes, ins.Modes[i].String())
	}
	if len(modes) == 0 {
		return out + ">"
	}
	return out + " " + strings.Join(modes, string(SeparatorChar)) + ">"
}
