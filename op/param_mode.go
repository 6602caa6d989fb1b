package op

// Mode is the addressing mode of a parameter.
type Mode int64

const (
	Position  Mode = iota // Parameter is an address.
	Immediate             // Parameter is the value itself. Read only.
	Relative              // Parameter is an offset from the relative base.
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m >= Position && m <= Relative }

// Prefix returns the assembly prefix of the mode.
func (m Mode) Prefix() string {
	switch m {
	case Immediate:
		return string(ImmediateChar)
	case Relative:
		return string(RelativeChar)
	default:
		return ""
	}
}

func (m Mode) String() string {
	switch m {
	case Position:
		return "position"
	case Immediate:
		return "immediate"
	case Relative:
		return "relative"
	default:
		return "unknown mode"
	}
}

// Tokens of the assembly syntax.
const (
	CommentChar    = ';'
	LabelChar      = ':'
	ImmediateChar  = '#'
	RelativeChar   = '@'
	SeparatorChar  = ','
	DirectiveChar  = '.'
	DataDirective  = ".data"
	LabelChars     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_0123456789"
	ProgramExt     = ".intcode"
	AssemblySrcExt = ".ics"
)
