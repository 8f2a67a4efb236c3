package trace

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"
)

// tokenReader reads the token stream of the XTR format with one byte of
// lookahead. Integer tokens may be separated by any whitespace; the
// select-value and entry terminators are byte-exact, so decoding needs
// explicit control over which whitespace gets skipped.
type tokenReader struct {
	r *bufio.Reader
}

func newTokenReader(r io.Reader) *tokenReader {
	return &tokenReader{r: bufio.NewReader(r)}
}

func (t *tokenReader) peekByte() (byte, error) {
	b, err := t.r.Peek(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (t *tokenReader) readByte() (byte, error) {
	return t.r.ReadByte()
}

// skipSpaces consumes plain spaces only, leaving line breaks in place.
func (t *tokenReader) skipSpaces() error {
	for {
		b, err := t.r.ReadByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if b != ' ' {
			return t.r.UnreadByte()
		}
	}
}

// skipWhitespace consumes spaces, tabs and line breaks.
func (t *tokenReader) skipWhitespace() error {
	for {
		b, err := t.r.ReadByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch b {
		case ' ', '\t', '\r', '\n', '\v', '\f':
		default:
			return t.r.UnreadByte()
		}
	}
}

// readInt skips whitespace and reads an optionally signed decimal
// integer token.
func (t *tokenReader) readInt() (int, error) {
	if err := t.skipWhitespace(); err != nil {
		return 0, err
	}
	neg := false
	b, err := t.peekByte()
	if err != nil {
		return 0, fmt.Errorf("expecting an integer: %w", err)
	}
	if b == '-' || b == '+' {
		neg = b == '-'
		t.r.ReadByte()
	}
	n := 0
	digits := 0
	for {
		b, err := t.peekByte()
		if err != nil || b < '0' || b > '9' {
			break
		}
		t.r.ReadByte()
		n = n*10 + int(b-'0')
		// The format's values are 32-bit; math.MinInt32 needs one
		// past math.MaxInt32 before the sign is applied.
		if n > math.MaxInt32+1 {
			return 0, fmt.Errorf("integer token out of range")
		}
		digits++
	}
	if digits == 0 {
		return 0, fmt.Errorf("expecting an integer")
	}
	if neg {
		n = -n
	} else if n > math.MaxInt32 {
		return 0, fmt.Errorf("integer token out of range")
	}
	return n, nil
}

// readLine reads up to and including the next line break, returning the
// line without it. A final unterminated line is returned as-is.
func (t *tokenReader) readLine() (string, error) {
	line, err := t.r.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), nil
}

// readDot consumes one line and requires it to be a lone dot. One line
// of pure whitespace is tolerated first. End of input here is a hard
// failure; a trace never just stops where a terminator is due.
func (t *tokenReader) readDot() error {
	line, err := t.readLine()
	if err == nil && strings.TrimSpace(line) == "" {
		line, err = t.readLine()
	}
	if err != nil {
		return fmt.Errorf("expecting a dot ('.') but got EOF")
	}
	if line != "." {
		return fmt.Errorf("expecting a dot ('.') but got %q", line)
	}
	return nil
}
