package parser

import (
	"fmt"
	"maps"

	"go.creack.net/intcode/program"
)

// Program encodes the parsed nodes into an Intcode program.
type Program struct {
	p *Parser

	buf    []int64
	labels map[string]int64 // Label name -> address.
}

func NewProgram(p *Parser) *Program {
	return &Program{p: p}
}

// Size returns the number of cells of the program.
func (p *Program) Size() int {
	size := 0
	for _, n := range p.p.Nodes {
		size += n.Size()
	}
	return size
}

// Labels returns the address of every label. Only set after Encode.
func (p *Program) Labels() map[string]int64 { return maps.Clone(p.labels) }

// index computes the label addresses. Instruction sizes are fixed so a
// single pass is enough.
func (p *Program) index() {
	p.labels = map[string]int64{}
	var addr int64
	for _, n := range p.p.Nodes {
		if l, ok := n.(*Label); ok {
			p.labels[l.Name] = addr
		}
		addr += int64(n.Size())
	}
}

func (p *Program) Encode() (program.Program, error) {
	p.index()
	p.buf = make([]int64, 0, p.Size())
	for _, n := range p.p.Nodes {
		if err := n.Encode(p); err != nil {
			return nil, fmt.Errorf("%s:%d: failed to encode %s: %w", p.p.Name(), n.Line(), n, err)
		}
	}
	return program.Program(p.buf), nil
}
