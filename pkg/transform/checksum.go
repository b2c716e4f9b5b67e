package transform

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

// ChecksumPrefix tags Result.Checksum with its algorithm, "sha256:<hex>".
const ChecksumPrefix = "sha256:"

// digestWriter hashes everything written through it.
type digestWriter struct {
	h hash.Hash
}

func newDigestWriter() *digestWriter {
	return &digestWriter{h: sha256.New()}
}

func (d *digestWriter) Write(p []byte) (int, error) {
	return d.h.Write(p)
}

func (d *digestWriter) String() string {
	return ChecksumPrefix + hex.EncodeToString(d.h.Sum(nil))
}

// Checksum returns the prefixed sha256 digest of data, in the same form as
// Result.Checksum.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return ChecksumPrefix + hex.EncodeToString(sum[:])
}
