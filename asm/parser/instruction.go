package parser

import (
	"fmt"
	"strings"

	"go.creack.net/intcode/op"
)

type Instruction struct {
	OpCode op.OpCode    // OpCode reference.
	Params []*Parameter // Parameters.
	line   int
}

func (ins *Instruction) Line() int { return ins.line }
func (ins *Instruction) Size() int { return ins.OpCode.Size() }

// Decoded returns the instruction as the machine sees it.
func (ins *Instruction) Decoded() op.Instruction {
	out := op.Instruction{OpCode: ins.OpCode}
	for i, param := range ins.Params {
		out.Modes[i] = param.Mode
	}
	out.Word = out.Encode()
	return out
}

func (ins *Instruction) ValidateParameters() error {
	if len(ins.Params) != len(ins.OpCode.Params) {
		return fmt.Errorf("expected %d parameters, got %d", len(ins.OpCode.Params), len(ins.Params))
	}
	for i, param := range ins.Params {
		if kind := ins.OpCode.Params[i]; !kind.Allows(param.Mode) {
			return fmt.Errorf("invalid %s mode for parameter %d of %q (%s)", param.Mode, i+1, ins.OpCode.Name, kind)
		}
	}
	return nil
}

func (ins *Instruction) Encode(p *Program) error {
	p.buf = append(p.buf, ins.Decoded().Word)
	for i, param := range ins.Params {
		n, err := param.Resolve(p.labels)
		if err != nil {
			return fmt.Errorf("parameter %d: %w", i+1, err)
		}
		p.buf = append(p.buf, n)
	}
	return nil
}

func (ins *Instruction) PrettyPrint(_ []Node) string {
	out := "\t" + ins.OpCode.Name
	if len(ins.Params) == 0 {
		return out
	}
	paramStrs := make([]string, 0, len(ins.Params))
	for _, param := range ins.Params {
		paramStrs = append(paramStrs, param.String())
	}
	return fmt.Sprintf("%-4s %s", out, strings.Join(paramStrs, string(op.SeparatorChar)+" "))
}

func (ins *Instruction) String() string {
	out := "<" + ins.OpCode.Name
	paramStrs := make([]string, 0, len(ins.Params))
	for _, param := range ins.Params {
		paramStrs = append(paramStrs, param.String())
	}
	if len(paramStrs) == 0 {
		return out + ">"
	}
	out += " (" + strings.Join(paramStrs, string(op.SeparatorChar)+" ") + ")"
	return out + ">"
}
