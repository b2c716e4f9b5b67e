package transform

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	picerrors "github.com/provide-io/picrypt/pkg/errors"
)

// Marker lines written at the very start of transformed files.
// On disk each is followed by a single '\n'.
const (
	EncryptedMarker = "---This file has been ENCRYPTED---"
	DecryptedMarker = "---This file has been DECRYPTED---"
)

// Status is the processing state recorded by a file's first line.
type Status uint8

const (
	Plaintext Status = iota
	Encrypted
	Decrypted
)

func (s Status) String() string {
	switch s {
	case Encrypted:
		return "Encrypted"
	case Decrypted:
		return "Decrypted"
	default:
		return "Plaintext"
	}
}

// Detect reads the first line of r and reports which marker, if any, it holds.
// No more than one marker line's worth of r is read.
func Detect(r io.Reader) (Status, error) {
	head, err := bufio.NewReaderSize(r, 64).Peek(len(EncryptedMarker) + 1)
	if err != nil && err != io.EOF {
		return Plaintext, err
	}
	return statusOf(markerLine(head, err == io.EOF)), nil
}

// DetectFile is Detect on the file at path.
func DetectFile(path string) (Status, error) {
	f, err := os.Open(path)
	if err != nil {
		return Plaintext, fmt.Errorf("%w: %w", picerrors.ErrInputUnreadable, err)
	}
	defer f.Close()

	status, err := Detect(f)
	if err != nil {
		return Plaintext, fmt.Errorf("%w: %w", picerrors.ErrInputUnreadable, err)
	}
	return status, nil
}

// markerLine returns the line a marker would occupy in head, the first
// len(EncryptedMarker)+1 bytes of an input. Without a trailing newline the
// line only counts when the input ended there.
func markerLine(head []byte, atEOF bool) []byte {
	if line, ok := bytes.CutSuffix(head, []byte{'\n'}); ok {
		return line
	}
	if atEOF {
		return head
	}
	return nil
}

func statusOf(line []byte) Status {
	switch string(line) {
	case EncryptedMarker:
		return Encrypted
	case DecryptedMarker:
		return Decrypted
	default:
		return Plaintext
	}
}
