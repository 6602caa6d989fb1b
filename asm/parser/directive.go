package parser

import (
	"fmt"
	"strings"

	"go.creack.net/intcode/op"
)

// Directive is a `.data` statement: raw values copied to the program.
type Directive struct {
	Name   string
	Values []*Parameter
	line   int
}

func (d *Directive) Line() int { return d.line }
func (d *Directive) Size() int { return len(d.Values) }

func (d *Directive) Encode(p *Program) error {
	for i, v := range d.Values {
		n, err := v.Resolve(p.labels)
		if err != nil {
			return fmt.Errorf("value %d: %w", i+1, err)
		}
		p.buf = append(p.buf, n)
	}
	return nil
}

func (d *Directive) PrettyPrint(_ []Node) string {
	strs := make([]string, 0, len(d.Values))
	for _, v := range d.Values {
		strs = append(strs, v.String())
	}
	return "\t" + string(op.DirectiveChar) + d.Name + " " + strings.Join(strs, string(op.SeparatorChar)+" ")
}

func (d *Directive) String() string {
	return fmt.Sprintf("<%c%s %d values>", op.DirectiveChar, d.Name, len(d.Values))
}
