// Package op defines the Intcode instruction set: opcodes, parameter
// modes and the decimal encoding of instruction words.
package op

import "fmt"

// Code is an opcode, the two least significant decimal digits of an
// instruction word.
type Code int64

// Opcodes.
const (
	Add         Code = 1
	Mul         Code = 2
	In          Code = 3
	Out         Code = 4
	JumpIfTrue  Code = 5
	JumpIfFalse Code = 6
	LessThan    Code = 7
	Equals      Code = 8
	AdjustBase  Code = 9
	Halt        Code = 99
)

const (
	MaxParams = 3 // The longest instruction (add, mul, lt, eq) has 3 parameters.

	// Decimal weights of the instruction word fields.
	opcodeWeight = 100 // word % 100 is the opcode.
	modeWeight   = 10  // Each mode is a single decimal digit.
)

// OpCode is the definition of an instruction.
type OpCode struct {
	Name    string
	Code    Code
	Params  []ParamKind
	Comment string
}

// Size returns the number of memory cells used by the instruction,
// including the instruction word itself.
func (oc OpCode) Size() int { return 1 + len(oc.Params) }

// Writes reports whether the opcode stores a result through its last parameter.
func (oc OpCode) Writes() bool {
	return len(oc.Params) > 0 && oc.Params[len(oc.Params)-1] == PWrite
}

// Jumps reports whether the opcode may set the program counter.
func (oc OpCode) Jumps() bool { return oc.Code == JumpIfTrue || oc.Code == JumpIfFalse }

func (oc OpCode) String() string { return oc.Name }

func (c Code) String() string {
	if oc, ok := Lookup(c); ok {
		return oc.Name
	}
	return fmt.Sprintf("op(%d)", int64(c))
}

var (
	byCode = map[Code]OpCode{}
	byName = map[string]OpCode{}
)

func init() {
	for _, elem := range OpCodeTable {
		byCode[elem.Code] = elem
		byName[elem.Name] = elem
	}
}

// Lookup returns the definition of the given opcode.
func Lookup(c Code) (OpCode, bool) {
	oc, ok := byCode[c]
	return oc, ok
}

// LookupName returns the definition of the opcode with the given mnemonic.
func LookupName(name string) (OpCode, bool) {
	oc, ok := byName[name]
	return oc, ok
}
