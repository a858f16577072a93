package ui

import (
	"bufio"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// KeyCode classifies a keypress
type KeyCode int

const (
	KeyUnknown KeyCode = iota
	KeyRune
	KeyUp
	KeyDown
	KeyEnter
	KeyEscape
	KeyInterrupt
)

// Key is a single decoded keypress. Rune is set for KeyRune.
type Key struct {
	Code KeyCode
	Rune rune
}

// Is reports whether k is the printable rune r
func (k Key) Is(r rune) bool {
	return k.Code == KeyRune && k.Rune == r
}

// Input reads menu choices and single keypresses
type Input interface {
	// ReadLine returns one line without its terminator
	ReadLine() (string, error)
	// ReadKey returns the next keypress
	ReadKey() (Key, error)
}

// ParseKey decodes the bytes of one keypress. ANSI arrow sequences and the
// Windows console's 0xE0 prefixed scan codes are both understood.
func ParseKey(b []byte) Key {
	if len(b) == 0 {
		return Key{Code: KeyEnter}
	}

	switch b[0] {
	case 0x1b:
		if len(b) >= 3 && (b[1] == '[' || b[1] == 'O') {
			switch b[2] {
			case 'A':
				return Key{Code: KeyUp}
			case 'B':
				return Key{Code: KeyDown}
			}
			return Key{Code: KeyUnknown}
		}
		return Key{Code: KeyEscape}
	case 0x00, 0xe0:
		if len(b) >= 2 {
			switch b[1] {
			case 72:
				return Key{Code: KeyUp}
			case 80:
				return Key{Code: KeyDown}
			}
		}
		return Key{Code: KeyUnknown}
	case 0x03:
		return Key{Code: KeyInterrupt}
	case '\r', '\n':
		return Key{Code: KeyEnter}
	}

	r, _ := utf8.DecodeRune(b)
	if r == utf8.RuneError {
		return Key{Code: KeyUnknown}
	}
	return Key{Code: KeyRune, Rune: r}
}

// LineInput reads keys as whole lines, for pipes and scripted sessions
type LineInput struct {
	reader *bufio.Reader
}

// NewLineInput creates a line based input over r
func NewLineInput(r io.Reader) *LineInput {
	return &LineInput{reader: bufio.NewReader(r)}
}

// ReadLine returns the next line. A final line without a newline is
// returned before io.EOF.
func (l *LineInput) ReadLine() (string, error) {
	return readLine(l.reader)
}

// ReadKey reads a line and decodes its first keypress
func (l *LineInput) ReadKey() (Key, error) {
	line, err := readLine(l.reader)
	if err != nil {
		return Key{}, err
	}
	return ParseKey([]byte(line)), nil
}

// TerminalInput reads single keypresses in raw mode
type TerminalInput struct {
	fd     int
	reader *bufio.Reader
}

// NewTerminalInput creates a raw mode key reader over a terminal
func NewTerminalInput(f *os.File) *TerminalInput {
	return &TerminalInput{
		fd:     int(f.Fd()),
		reader: bufio.NewReader(f),
	}
}

// ReadLine reads one line in the terminal's normal mode
func (t *TerminalInput) ReadLine() (string, error) {
	return readLine(t.reader)
}

// ReadKey switches the terminal to raw mode for exactly one keypress
func (t *TerminalInput) ReadKey() (Key, error) {
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return Key{}, err
	}
	defer term.Restore(t.fd, state)

	var buf [8]byte
	n, err := t.reader.Read(buf[:])
	if err != nil {
		return Key{}, err
	}
	return ParseKey(buf[:n]), nil
}

// NewInput picks raw key reading for terminals and line reading otherwise
func NewInput(f *os.File) Input {
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return NewTerminalInput(f)
	}
	return NewLineInput(f)
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
