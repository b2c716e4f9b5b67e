// Package keysource loads the decimal digit sequence that keys the cipher.
//
// Any text can serve as a key source: every byte that is an ASCII decimal
// digit is kept, in order, and everything else (whitespace, the decimal point
// of "3.14159", punctuation, newlines) is skipped.
package keysource

import (
	"bufio"
	"fmt"
	"io"
	"os"

	picerrors "github.com/provide-io/picrypt/pkg/errors"
)

// DefaultPath is the key source looked up when none is configured.
const DefaultPath = "pi_digits.txt"

// KeySequence is an immutable, non-empty run of digits in [0,9].
// The zero value has length 0 and is rejected by the transform engine.
type KeySequence struct {
	digits []byte
}

// New builds a KeySequence from digit values. The slice is copied.
func New(digits []byte) (KeySequence, error) {
	if len(digits) == 0 {
		return KeySequence{}, picerrors.ErrEmptyKeySequence
	}
	for i, d := range digits {
		if d > 9 {
			return KeySequence{}, fmt.Errorf("%w: %d at index %d", picerrors.ErrInvalidDigit, d, i)
		}
	}
	s := make([]byte, len(digits))
	copy(s, digits)
	return KeySequence{digits: s}, nil
}

// Len returns the number of digits in the sequence.
func (k KeySequence) Len() int {
	return len(k.digits)
}

// At returns the digit at position i, wrapping modulo Len.
func (k KeySequence) At(i int) byte {
	return k.digits[i%len(k.digits)]
}

// Digits returns a copy of the digit values.
func (k KeySequence) Digits() []byte {
	s := make([]byte, len(k.digits))
	copy(s, k.digits)
	return s
}

// Parse scans r and keeps every decimal digit character.
func Parse(r io.Reader) (KeySequence, error) {
	br := bufio.NewReader(r)
	var digits []byte
	for {
		c, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return KeySequence{}, fmt.Errorf("%w: %w", picerrors.ErrKeySourceUnreadable, err)
		}
		if c >= '0' && c <= '9' {
			digits = append(digits, c-'0')
		}
	}

	return New(digits)
}

// Load opens the key source at path and parses it.
func Load(path string) (KeySequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return KeySequence{}, fmt.Errorf("%w: %w", picerrors.ErrKeySourceUnreadable, err)
	}
	defer f.Close()

	key, err := Parse(f)
	if err != nil {
		return KeySequence{}, fmt.Errorf("loading %s: %w", path, err)
	}
	return key, nil
}
