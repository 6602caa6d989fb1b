package vm

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedProgram is returned for an unknown opcode or parameter mode.
	ErrMalformedProgram = errors.New("malformed program")
	// ErrIllegalWrite is returned when an instruction writes through an immediate parameter.
	ErrIllegalWrite = errors.New("illegal write target")
	// ErrOutOfRangeJump is returned when a jump targets a negative address.
	ErrOutOfRangeJump = errors.New("out of range jump")
	// ErrInvalidAddress is returned when a parameter resolves to a negative address.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInputExhausted is returned by Resume when an input instruction finds
	// neither a provider value nor a pending input. It is not a fault: the
	// machine stays on the input instruction and the next Resume call
	// supplying inputs continues from there.
	ErrInputExhausted = errors.New("input exhausted")
)

// Fault is returned when the machine stops on an invalid instruction.
// A faulted machine cannot be resumed until Reset.
type Fault struct {
	Err  error
	PC   int64 // Address of the faulty instruction.
	Word int64 // Instruction word at PC.
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s at pc %d (word %d)", f.Err, f.PC, f.Word)
}

func (f *Fault) Unwrap() error { return f.Err }
