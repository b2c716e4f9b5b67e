// Package cipher implements the repeating-key additive byte stream.
//
// Each byte b at stream position i becomes (b + key[i mod len]) mod 256 on
// encode and (b - key[i mod len] + 256) mod 256 on decode. Byte arithmetic in
// Go wraps at 256, so the modulo is implicit.
package cipher

import "io"

// Key is a cyclic sequence of key digits.
type Key interface {
	Len() int
	At(i int) byte
}

// EncodeByte shifts b up by k.
func EncodeByte(b, k byte) byte {
	return b + k
}

// DecodeByte shifts b down by k.
func DecodeByte(b, k byte) byte {
	return b - k
}

// Stream applies the key starting at position 0 and advances one position
// per byte processed. A Stream is not safe for concurrent use; the key is.
type Stream struct {
	key Key
	idx int
}

// NewStream returns a Stream positioned at the start of key.
// key must be non-empty.
func NewStream(key Key) *Stream {
	return &Stream{key: key}
}

// Encode writes the encoded form of src into dst.
// dst must be at least as long as src; dst and src may overlap entirely.
func (s *Stream) Encode(dst, src []byte) {
	n := s.key.Len()
	for i, b := range src {
		dst[i] = EncodeByte(b, s.key.At(s.idx))
		s.idx = (s.idx + 1) % n
	}
}

// Decode writes the decoded form of src into dst.
func (s *Stream) Decode(dst, src []byte) {
	n := s.key.Len()
	for i, b := range src {
		dst[i] = DecodeByte(b, s.key.At(s.idx))
		s.idx = (s.idx + 1) % n
	}
}

// Encode returns data encoded from key position 0.
func Encode(data []byte, key Key) []byte {
	out := make([]byte, len(data))
	NewStream(key).Encode(out, data)
	return out
}

// Decode returns data decoded from key position 0.
func Decode(data []byte, key Key) []byte {
	out := make([]byte, len(data))
	NewStream(key).Decode(out, data)
	return out
}

type streamWriter struct {
	stream *Stream
	w      io.Writer
	encode bool
	buf    []byte
}

// NewEncodeWriter returns a writer that encodes everything written to it
// before passing it on to w. Each writer owns its own key position.
func NewEncodeWriter(key Key, w io.Writer) io.Writer {
	return &streamWriter{stream: NewStream(key), w: w, encode: true}
}

// NewDecodeWriter returns a writer that decodes everything written to it
// before passing it on to w.
func NewDecodeWriter(key Key, w io.Writer) io.Writer {
	return &streamWriter{stream: NewStream(key), w: w}
}

func (sw *streamWriter) Write(p []byte) (int, error) {
	if cap(sw.buf) < len(p) {
		sw.buf = make([]byte, len(p))
	}
	buf := sw.buf[:len(p)]

	if sw.encode {
		sw.stream.Encode(buf, p)
	} else {
		sw.stream.Decode(buf, p)
	}
	return sw.w.Write(buf)
}
