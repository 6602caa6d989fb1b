package parser

import (
	"fmt"
	"strconv"
	"strings"

	"go.creack.net/intcode/op"
)

// Term is one operand of a parameter expression: a number or a label
// reference. Parameters sum their terms.
type Term struct {
	Label string // Set for label references.
	Neg   bool   // Subtract the label address instead of adding it.
	Value int64  // Signed value for numbers.
}

func (t Term) String() string {
	if t.Label == "" {
		return strconv.FormatInt(t.Value, 10)
	}
	if t.Neg {
		return "-" + t.Label
	}
	return t.Label
}

// Parameter represents a parameter in an instruction or a directive.
type Parameter struct {
	Mode  op.Mode
	Terms []Term
}

func (p Parameter) String() string {
	var sb strings.Builder
	sb.WriteString(p.Mode.Prefix())
	for i, t := range p.Terms {
		s := t.String()
		if i > 0 && !strings.HasPrefix(s, "-") {
			sb.WriteByte('+')
		}
		sb.WriteString(s)
	}
	return sb.String()
}

// Resolve returns the value of the parameter given the label addresses.
func (p Parameter) Resolve(labels map[string]int64) (int64, error) {
	var n int64
	for _, t := range p.Terms {
		if t.Label == "" {
			n += t.Value
			continue
		}
		addr, ok := labels[t.Label]
		if !ok {
			return 0, fmt.Errorf("unknown label %q", t.Label)
		}
		if t.Neg {
			addr = -addr
		}
		n += addr
	}
	return n, nil
}

// parseNumber parses a signed integer with an optional 0x, 0o or 0b prefix.
func parseNumber(in string) (int64, error) {
	s, sign := in, ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	} else {
		s = strings.TrimPrefix(s, "+")
	}
	base := 10
	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			s = s[2:]
		}
	}
	// The sign stays with the digits so math.MinInt64 parses.
	n, err := strconv.ParseInt(sign+strings.ReplaceAll(s, "_", ""), base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", in, err)
	}
	return n, nil
}
