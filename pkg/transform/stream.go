package transform

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/provide-io/picrypt/pkg/cipher"
	picerrors "github.com/provide-io/picrypt/pkg/errors"
)

// EncryptStream writes the encrypted marker line to w, then every byte of r
// shifted by the key from position 0. An existing marker in r is not
// skipped: its bytes are encrypted like the rest. It returns the number of
// bytes written to w.
func (e *Engine) EncryptStream(r io.Reader, w io.Writer) (int64, error) {
	out := &sink{w: w}
	bw := bufio.NewWriter(out)

	if _, err := bw.WriteString(EncryptedMarker + "\n"); err != nil {
		return out.n, err
	}
	if _, err := io.Copy(cipher.NewEncodeWriter(e.key, bw), &source{r: r}); err != nil {
		return out.n, err
	}
	if err := bw.Flush(); err != nil {
		return out.n, err
	}
	return out.n, nil
}

// DecryptStream consumes the first line of r. If it is the encrypted marker
// it is dropped, otherwise it is copied to w verbatim followed by '\n'. The
// decrypted marker line comes next, then the rest of r shifted back by the
// key from position 0. It returns the number of bytes written to w.
//
// Only enough of r to recognise the marker is buffered; a long first line
// is streamed through in chunks.
func (e *Engine) DecryptStream(r io.Reader, w io.Writer) (int64, error) {
	out := &sink{w: w}
	bw := bufio.NewWriter(out)
	br := bufio.NewReader(&source{r: r})

	head, err := br.Peek(len(EncryptedMarker) + 1)
	if err != nil && err != io.EOF {
		return out.n, err
	}
	if statusOf(markerLine(head, err == io.EOF)) == Encrypted {
		if _, err := br.Discard(len(head)); err != nil {
			return out.n, err
		}
	} else if err := copyLine(bw, br); err != nil {
		return out.n, err
	}

	if _, err := bw.WriteString(DecryptedMarker + "\n"); err != nil {
		return out.n, err
	}

	if _, err := io.Copy(cipher.NewDecodeWriter(e.key, bw), br); err != nil {
		return out.n, err
	}
	if err := bw.Flush(); err != nil {
		return out.n, err
	}
	return out.n, nil
}

// copyLine copies one line from r to w without its newline, then writes
// '\n'. A last line without a newline gains one.
func copyLine(w *bufio.Writer, r *bufio.Reader) error {
	for {
		chunk, err := r.ReadSlice('\n')
		if _, werr := w.Write(bytes.TrimSuffix(chunk, []byte{'\n'})); werr != nil {
			return werr
		}
		switch err {
		case bufio.ErrBufferFull:
			continue
		case nil, io.EOF:
			return w.WriteByte('\n')
		default:
			return err
		}
	}
}

// source tags read failures so they can be told apart from write failures
// once io.Copy has returned.
type source struct {
	r io.Reader
}

func (s *source) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		err = fmt.Errorf("%w: %w", picerrors.ErrInputUnreadable, err)
	}
	return n, err
}

// sink counts bytes written and tags write failures.
type sink struct {
	w io.Writer
	n int64
}

func (s *sink) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	s.n += int64(n)
	if err != nil {
		err = fmt.Errorf("%w: %w", picerrors.ErrOutputUnwritable, err)
	}
	return n, err
}
