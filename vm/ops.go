package vm

import (
	"fmt"

	"go.creack.net/intcode/op"
)

// operand returns the raw i-th parameter (0 based) of the current instruction.
func (m *Machine) operand(i int) int64 {
	return m.mem.Get(m.pc + 1 + int64(i))
}

// address resolves the i-th parameter to a memory address.
func (m *Machine) address(ins op.Instruction, i int) (int64, error) {
	raw := m.operand(i)

	var addr int64
	switch ins.Modes[i] {
	case op.Position:
		addr = raw
	case op.Relative:
		addr = m.relBase + raw
	default:
		return 0, fmt.Errorf("%w: parameter %d of %q is immediate", ErrIllegalWrite, i+1, ins.OpCode.Name)
	}
	if addr < 0 {
		return 0, fmt.Errorf("%w %d for parameter %d of %q", ErrInvalidAddress, addr, i+1, ins.OpCode.Name)
	}
	return addr, nil
}

// load returns the value of the i-th parameter.
func (m *Machine) load(ins op.Instruction, i int) (int64, error) {
	if ins.Modes[i] == op.Immediate {
		return m.operand(i), nil
	}
	addr, err := m.address(ins, i)
	if err != nil {
		return 0, err
	}
	return m.mem.read(addr), nil
}

// store writes value at the address of the i-th parameter.
func (m *Machine) store(ins op.Instruction, i int, value int64) error {
	addr, err := m.address(ins, i)
	if err != nil {
		return err
	}
	m.mem.Set(addr, value)
	return nil
}

func (m *Machine) next(ins op.Instruction) { m.pc += int64(ins.Size()) }

func opAdd(a, b int64) int64 { return a + b }
func opMul(a, b int64) int64 { return a * b }

func opLessThan(a, b int64) int64 {
	if a < b {
		return 1
	}
	return 0
}

func opEquals(a, b int64) int64 {
	if a == b {
		return 1
	}
	return 0
}

func isTrue(v int64) bool  { return v != 0 }
func isFalse(v int64) bool { return v == 0 }

// mathOp returns the op function for the 3 parameters operations:
// the result of operation on the first 2 is stored at the 3rd.
func mathOp(operation func(a, b int64) int64) func(m *Machine, ins op.Instruction) (Outcome, error) {
	return func(m *Machine, ins op.Instruction) (Outcome, error) {
		a, err := m.load(ins, 0)
		if err != nil {
			return Outcome{}, err
		}
		b, err := m.load(ins, 1)
		if err != nil {
			return Outcome{}, err
		}
		if err := m.store(ins, 2, operation(a, b)); err != nil {
			return Outcome{}, err
		}
		m.next(ins)
		return Outcome{}, nil
	}
}

// jumpOp returns the op function for the conditional jumps:
// when cond holds for the 1st parameter, pc is set to the 2nd.
func jumpOp(cond func(v int64) bool) func(m *Machine, ins op.Instruction) (Outcome, error) {
	return func(m *Machine, ins op.Instruction) (Outcome, error) {
		v, err := m.load(ins, 0)
		if err != nil {
			return Outcome{}, err
		}
		target, err := m.load(ins, 1)
		if err != nil {
			return Outcome{}, err
		}
		if !cond(v) {
			m.next(ins)
			return Outcome{}, nil
		}
		if target < 0 {
			return Outcome{}, fmt.Errorf("%w: target %d", ErrOutOfRangeJump, target)
		}
		m.pc = target
		return Outcome{}, nil
	}
}

// ops maps each opcode to its implementation.
// Implementations update pc themselves and leave it untouched on error.
var ops = func() map[op.Code]func(m *Machine, ins op.Instruction) (Outcome, error) {
	ops := map[op.Code]func(m *Machine, ins op.Instruction) (Outcome, error){}

	// add. mul. lt. eq.
	// 3 Params: 2 values, 1 target.
	ops[op.Add] = mathOp(opAdd)
	ops[op.Mul] = mathOp(opMul)
	ops[op.LessThan] = mathOp(opLessThan)
	ops[op.Equals] = mathOp(opEquals)

	// in. Stores the next input at the 1st param.
	// The write target is validated before consuming any input.
	ops[op.In] = func(m *Machine, ins op.Instruction) (Outcome, error) {
		addr, err := m.address(ins, 0)
		if err != nil {
			return Outcome{}, err
		}
		v, ok := m.nextInput()
		if !ok {
			return Outcome{}, fmt.Errorf("%w at pc %d", ErrInputExhausted, m.pc)
		}
		m.emit(MsgInput, m.pc, v, fmt.Sprintf("input %d", v))
		m.mem.Set(addr, v)
		m.next(ins)
		return Outcome{}, nil
	}

	// out. Suspends the machine with the value of the 1st param.
	ops[op.Out] = func(m *Machine, ins op.Instruction) (Outcome, error) {
		v, err := m.load(ins, 0)
		if err != nil {
			return Outcome{}, err
		}
		m.next(ins)
		return Outcome{Kind: Output, Value: v}, nil
	}

	// jt. jf.
	ops[op.JumpIfTrue] = jumpOp(isTrue)
	ops[op.JumpIfFalse] = jumpOp(isFalse)

	// arb. Adds the 1st param to the relative base.
	ops[op.AdjustBase] = func(m *Machine, ins op.Instruction) (Outcome, error) {
		v, err := m.load(ins, 0)
		if err != nil {
			return Outcome{}, err
		}
		m.relBase += v
		m.next(ins)
		return Outcome{}, nil
	}

	// hlt. pc stays on the halt instruction.
	ops[op.Halt] = func(m *Machine, ins op.Instruction) (Outcome, error) {
		return Outcome{Kind: Halted}, nil
	}

	return ops
}()
