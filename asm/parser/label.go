package parser

import "go.creack.net/intcode/op"

type Label struct {
	Name string
	line int
}

func (l *Label) Line() int { return l.line }
func (l *Label) Size() int { return 0 }

// Encode is a no-op, labels are indexed before encoding.
func (l *Label) Encode(_ *Program) error { return nil }

func (l *Label) PrettyPrint(nodes []Node) string {
	// Unless we are first or immediately after a label, prefix with a newline.
	var prev Node
	for _, n := range nodes {
		if n == Node(l) {
			if _, ok := prev.(*Label); ok || prev == nil {
				return l.Name + string(op.LabelChar)
			}
			return "\n" + l.Name + string(op.LabelChar)
		}
		prev = n
	}
	// Should never happen.
	panic("self reference not found in nodes")
}

func (l *Label) String() string { return "<label " + l.Name + ">" }
