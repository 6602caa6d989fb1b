package parser

import (
	"fmt"
	"strings"

	"go.creack.net/intcode/op"
)

// stateFn scans part of the input and returns the next state, nil once an
// item is ready.
type stateFn func(*lexer) stateFn

type itemType int

const (
	itemError itemType = iota // Value is the error message.
	itemNewline
	itemIdentifier
	itemNumber // Also a lone sign, paired by the parser with the next term.
	itemComment
	itemLabel // Label definition, without the trailing ':'.
	itemComa
	itemImmediate
	itemRelative
	itemEOF
	itemDirective
)

var itemNames = [...]string{
	itemError:      "<error>",
	itemNewline:    "<newline>",
	itemIdentifier: "<identifier>",
	itemNumber:     "<number>",
	itemComment:    "<comment>",
	itemLabel:      "<label>",
	itemComa:       "<coma>",
	itemImmediate:  "<immediate>",
	itemRelative:   "<relative>",
	itemEOF:        "<eof>",
	itemDirective:  "<directive>",
}

func (it itemType) String() string {
	if it < 0 || int(it) >= len(itemNames) {
		return fmt.Sprintf("<unknown token %d>", int(it))
	}
	return itemNames[it]
}

// isEOL reports whether the item ends a statement.
func (it itemType) isEOL() bool {
	return it == itemNewline || it == itemEOF || it == itemComment
}

type item struct {
	typ  itemType
	val  string
	line int // Line of the first character of the item.
}

func (i item) String() string {
	switch i.typ {
	case itemEOF:
		return "EOF"
	case itemError:
		return i.val
	case itemNewline:
		return "'\\n'"
	case itemDirective:
		return fmt.Sprintf("<%s>", i.val)
	}
	if len(i.val) > 10 {
		return fmt.Sprintf("%s %.10q...", i.typ, i.val)
	}
	return fmt.Sprintf("%s %q", i.typ, i.val)
}

// Runes that can appear after a sign or a base prefix.
const (
	decDigits = "0123456789_"
	hexDigits = "0123456789abcdefABCDEF_"
	octDigits = "01234567_"
	binDigits = "01_"
)

// lexer splits assembly source into items. The source is ASCII, the lexer
// works on bytes.
type lexer struct {
	name  string // Used only for error reports.
	src   string
	start int // Start of the pending item.
	pos   int // Next byte to read.
	line  int // Line of src[start].
	item  item
}

// NewLexer creates a new scanner for the input string.
func NewLexer(name, input string) *lexer {
	return &lexer{name: name, src: input, line: 1}
}

// nextItem returns the next item from the input. Once an error or EOF is
// returned, every later call returns EOF.
func (l *lexer) nextItem() item {
	l.item = item{typ: itemEOF, val: "EOF", line: l.line}
	for state := lexStatement; state != nil; {
		state = state(l)
	}
	return l.item
}

func (l *lexer) done() bool { return l.pos >= len(l.src) }

// peek returns the next byte without consuming it, 0 at the end.
func (l *lexer) peek() byte {
	if l.done() {
		return 0
	}
	return l.src[l.pos]
}

// acceptRun consumes the bytes in set and reports whether any was.
func (l *lexer) acceptRun(set string) bool {
	from := l.pos
	for !l.done() && strings.IndexByte(set, l.src[l.pos]) >= 0 {
		l.pos++
	}
	return l.pos > from
}

// accept consumes the next byte if it is in set.
func (l *lexer) accept(set string) bool {
	if l.done() || strings.IndexByte(set, l.src[l.pos]) < 0 {
		return false
	}
	l.pos++
	return true
}

// drop discards the pending text, keeping the line count.
func (l *lexer) drop() {
	l.line += strings.Count(l.src[l.start:l.pos], "\n")
	l.start = l.pos
}

// emit sets the pending text as the next item.
func (l *lexer) emit(t itemType) stateFn {
	l.item = item{typ: t, val: l.src[l.start:l.pos], line: l.line}
	l.drop()
	return nil
}

// errorf emits an error item and discards the rest of the input.
func (l *lexer) errorf(format string, args ...any) stateFn {
	l.item = item{typ: itemError, val: fmt.Sprintf(format, args...), line: l.line}
	l.src = l.src[:l.start]
	l.pos = l.start
	return nil
}

func lexStatement(l *lexer) stateFn {
	l.acceptRun(" \t\r")
	l.drop()
	if l.done() {
		return l.emit(itemEOF)
	}

	switch c := l.peek(); {
	case c == '\n':
		// Blank lines collapse into a single newline.
		l.acceptRun(" \t\r\n")
		if l.done() {
			l.drop()
			return l.emit(itemEOF)
		}
		return l.emit(itemNewline)
	case c == op.CommentChar:
		if i := strings.IndexByte(l.src[l.pos:], '\n'); i >= 0 {
			l.pos += i
		} else {
			l.pos = len(l.src)
		}
		l.item = item{typ: itemComment, val: strings.TrimSpace(l.src[l.start:l.pos]), line: l.line}
		l.drop()
		return nil
	case c == op.SeparatorChar:
		l.pos++
		return l.emit(itemComa)
	case c == op.ImmediateChar:
		l.pos++
		return l.emit(itemImmediate)
	case c == op.RelativeChar:
		l.pos++
		return l.emit(itemRelative)
	case c == op.DirectiveChar:
		l.pos++
		if !l.acceptRun(op.LabelChars) {
			return l.errorf("missing directive name")
		}
		return l.emit(itemDirective)
	case c == '+' || c == '-' || (c >= '0' && c <= '9'):
		return lexNumber
	case strings.IndexByte(op.LabelChars, c) >= 0:
		return lexName
	default:
		return l.errorf("unexpected character %q", rune(c))
	}
}

// lexNumber scans an optionally signed integer with an optional base
// prefix. Unsigned digits followed by letters are a name.
func lexNumber(l *lexer) stateFn {
	signed := l.accept("+-")
	if !l.acceptRun(decDigits) {
		return l.emit(itemNumber)
	}
	if strings.TrimLeft(l.src[l.start:l.pos], "+-") == "0" {
		switch {
		case l.accept("xX"):
			l.acceptRun(hexDigits)
		case l.accept("oO"):
			l.acceptRun(octDigits)
		case l.accept("bB"):
			l.acceptRun(binDigits)
		}
	}
	if !signed && strings.IndexByte(op.LabelChars, l.peek()) >= 0 {
		return lexName
	}
	return l.emit(itemNumber)
}

// lexName scans an identifier, or a label definition when a ':' follows.
func lexName(l *lexer) stateFn {
	l.acceptRun(op.LabelChars)
	if l.peek() != op.LabelChar {
		return l.emit(itemIdentifier)
	}
	l.item = item{typ: itemLabel, val: l.src[l.start:l.pos], line: l.line}
	l.pos++
	l.drop()
	return nil
}
