// Package ascii converts between text and the values exchanged with
// programs speaking an ASCII protocol.
package ascii

import (
	"fmt"
	"io"
	"strings"
)

// MaxChar is the highest value treated as a character.
const MaxChar = 127

// IsText reports whether v is an ASCII character.
func IsText(v int64) bool { return v >= 0 && v <= MaxChar }

// Encode returns the bytes of s as input values.
// Non ASCII runes are rejected.
func Encode(s string) ([]int64, error) {
	out := make([]int64, 0, len(s))
	for i, r := range s {
		if r > MaxChar {
			return nil, fmt.Errorf("non ascii character %q at offset %d", r, i)
		}
		out = append(out, int64(r))
	}
	return out, nil
}

// Command encodes lines, each one terminated by a newline.
func Command(lines ...string) ([]int64, error) {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return Encode(sb.String())
}

// Split separates the characters from the other values.
func Split(outputs []int64) (text string, rest []int64) {
	var sb strings.Builder
	for _, v := range outputs {
		if IsText(v) {
			sb.WriteByte(byte(v))
			continue
		}
		rest = append(rest, v)
	}
	return sb.String(), rest
}

// Write prints outputs to w, characters as is and other values in decimal
// on their own line.
func Write(w io.Writer, outputs []int64) error {
	for _, v := range outputs {
		var err error
		if IsText(v) {
			_, err = w.Write([]byte{byte(v)})
		} else {
			_, err = fmt.Fprintf(w, "%d\n", v)
		}
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
