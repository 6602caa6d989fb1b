package op

import "strings"

// ParamKind tells how an instruction uses a parameter.
type ParamKind int

const (
	PRead  ParamKind = 1 << iota // Operand value is read.
	PWrite                       // Operand is a target address. Never immediate.
)

// Allows reports whether a parameter of this kind may use mode m.
func (pk ParamKind) Allows(m Mode) bool {
	if !m.Valid() {
		return false
	}
	return pk != PWrite || m != Immediate
}

func (pk ParamKind) String() string {
	var parts []string
	if pk&PRead != 0 {
		parts = append(parts, "read")
	}
	if pk&PWrite != 0 {
		parts = append(parts, "write")
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, "|")
}
