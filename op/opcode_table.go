package op

// OpCodeTable lists every supported instruction.
var OpCodeTable = []OpCode{
	{"add", Add, []ParamKind{PRead, PRead, PWrite}, "add      a,b,c   a+b -> c"},
	{"mul", Mul, []ParamKind{PRead, PRead, PWrite}, "multiply a,b,c   a*b -> c"},
	{"in", In, []ParamKind{PWrite}, "input    a       input -> a"},
	{"out", Out, []ParamKind{PRead}, "output   a       a -> output"},
	{"jt", JumpIfTrue, []ParamKind{PRead, PRead}, "jump if true    a != 0 ? pc = b"},
	{"jf", JumpIfFalse, []ParamKind{PRead, PRead}, "jump if false   a == 0 ? pc = b"},
	{"lt", LessThan, []ParamKind{PRead, PRead, PWrite}, "less than       a<b -> c"},
	{"eq", Equals, []ParamKind{PRead, PRead, PWrite}, "equals          a==b -> c"},
	{"arb", AdjustBase, []ParamKind{PRead}, "adjust relative base   rb += a"},
	{"hlt", Halt, nil, "halt"},
}
