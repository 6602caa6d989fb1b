package parser

import (
	"fmt"
	"strings"

	"go.creack.net/intcode/op"
)

// Node is a statement of the source: label, instruction or directive.
type Node interface {
	Line() int
	Size() int // Number of memory cells produced.
	Encode(p *Program) error
	PrettyPrint(nodes []Node) string
}

// Parser structure
type Parser struct {
	lexer     *lexer
	currToken item
	peekToken item

	Nodes  []Node
	labels map[string]int // Label name -> definition line.
}

// NewParser creates a new parser
func NewParser(name, input string) *Parser {
	p := &Parser{
		lexer:  NewLexer(name, input),
		labels: map[string]int{},
	}
	// Preload the next token.
	p.nextToken()
	return p
}

// Name returns the name of the input.
func (p *Parser) Name() string { return p.lexer.name }

// nextToken advances to the next token
func (p *Parser) nextToken() {
	p.currToken = p.peekToken
	p.peekToken = p.lexer.nextItem()
}

func (p *Parser) parseLabel() error {
	name := p.currToken.val
	if line, ok := p.labels[name]; ok {
		return fmt.Errorf("duplicate label %q, first defined on line %d", name, line)
	}
	if _, ok := op.LookupName(name); ok {
		return fmt.Errorf("label %q shadows an instruction", name)
	}
	p.labels[name] = p.currToken.line
	p.Nodes = append(p.Nodes, &Label{Name: name, line: p.currToken.line})
	return nil
}

func (p *Parser) parseInstruction() error {
	oc, ok := op.LookupName(p.currToken.val)
	if !ok {
		return fmt.Errorf("unknown instruction %q", p.currToken.val)
	}
	ins := &Instruction{OpCode: oc, line: p.currToken.line}
	params, err := p.parseParameters(true)
	if err != nil {
		return fmt.Errorf("invalid instruction %q: %w", oc.Name, err)
	}
	ins.Params = params
	if err := ins.ValidateParameters(); err != nil {
		return fmt.Errorf("invalid instruction %s: %w", ins, err)
	}
	p.Nodes = append(p.Nodes, ins)
	return nil
}

func (p *Parser) parseDirective() error {
	if p.currToken.val != op.DataDirective {
		return fmt.Errorf("unknown directive %q", p.currToken.val)
	}
	d := &Directive{Name: strings.TrimPrefix(p.currToken.val, string(op.DirectiveChar)), line: p.currToken.line}
	values, err := p.parseParameters(false)
	if err != nil {
		return fmt.Errorf("invalid directive %q: %w", op.DataDirective, err)
	}
	if len(values) == 0 {
		return fmt.Errorf("directive %q expects at least one value", op.DataDirective)
	}
	d.Values = values
	p.Nodes = append(p.Nodes, d)
	return nil
}

// parseParameters parses a comma separated list of parameters up to the
// end of the line.
func (p *Parser) parseParameters(allowModes bool) ([]*Parameter, error) {
	var params []*Parameter
	for {
		p.nextToken()
		if len(params) == 0 && p.currToken.typ.isEOL() {
			return nil, nil
		}
		param, err := p.parseParameter(allowModes)
		if err != nil {
			return nil, err
		}
		params = append(params, param)

		p.nextToken()
		switch {
		case p.currToken.typ == itemComa:
			if p.peekToken.typ.isEOL() {
				return nil, fmt.Errorf("unexpected comma at the end of the line")
			}
		case p.currToken.typ.isEOL():
			return params, nil
		default:
			return nil, fmt.Errorf("unexpected token %s", p.currToken)
		}
	}
}

// parseParameter parses a parameter starting at the current token.
// It leaves the current token on the last token of the parameter.
func (p *Parser) parseParameter(allowModes bool) (*Parameter, error) {
	param := &Parameter{Mode: op.Position}
	switch p.currToken.typ {
	case itemImmediate:
		param.Mode = op.Immediate
	case itemRelative:
		param.Mode = op.Relative
	}
	if param.Mode != op.Position {
		if !allowModes {
			return nil, fmt.Errorf("unexpected %s mode prefix", param.Mode)
		}
		p.nextToken()
	}

	t, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	param.Terms = append(param.Terms, t)

	// Signed numbers and lone operators extend the expression.
	for p.peekToken.typ == itemNumber && strings.ContainsAny(p.peekToken.val[:1], "+-") {
		p.nextToken()
		t, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		param.Terms = append(param.Terms, t)
	}
	return param, nil
}

func (p *Parser) parseTerm() (Term, error) {
	tok := p.currToken
	switch tok.typ {
	case itemIdentifier:
		return Term{Label: tok.val}, nil
	case itemNumber:
		if tok.val == "+" || tok.val == "-" {
			p.nextToken()
			t, err := p.parseTerm()
			if err != nil {
				return Term{}, err
			}
			if tok.val == "-" {
				t.Neg = !t.Neg
				t.Value = -t.Value
			}
			return t, nil
		}
		n, err := parseNumber(tok.val)
		if err != nil {
			return Term{}, err
		}
		return Term{Value: n}, nil
	default:
		return Term{}, fmt.Errorf("expected number or label, got %s", tok)
	}
}

func (p *Parser) Parse() error {
	for {
		p.nextToken()
		item := p.currToken
		if item.typ == itemEOF {
			break
		}
		if item.typ == itemError {
			return fmt.Errorf("%s:%d: %s", p.lexer.name, item.line, item.val)
		}

		var err error
		switch item.typ {
		case itemNewline, itemComment:
			continue
		case itemLabel:
			err = p.parseLabel()
		case itemDirective:
			err = p.parseDirective()
		case itemIdentifier:
			err = p.parseInstruction()
		default:
			err = fmt.Errorf("unexpected item %s", item)
		}
		if err != nil {
			return fmt.Errorf("%s:%d: %w", p.lexer.name, item.line, err)
		}
	}
	return nil
}

// Format returns the source formatted back from the parsed nodes.
// Comments are not kept.
func (p *Parser) Format() string {
	var sb strings.Builder
	for _, n := range p.Nodes {
		sb.WriteString(n.PrettyPrint(p.Nodes))
		sb.WriteByte('\n')
	}
	return sb.String()
}
