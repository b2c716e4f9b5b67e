package transform

import (
	"fmt"
	"strings"

	picerrors "github.com/provide-io/picrypt/pkg/errors"
)

// Mode selects the direction of a transform.
type Mode uint8

const (
	Encrypt Mode = iota + 1
	Decrypt
)

// Output file name prefixes, one per mode.
const (
	EncryptedPrefix = "encrypted_"
	DecryptedPrefix = "decrypted_"
)

func (m Mode) String() string {
	switch m {
	case Encrypt:
		return "encrypt"
	case Decrypt:
		return "decrypt"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// Prefix returns the output name prefix for m.
func (m Mode) Prefix() string {
	if m == Encrypt {
		return EncryptedPrefix
	}
	return DecryptedPrefix
}

// Valid reports whether m is Encrypt or Decrypt.
func (m Mode) Valid() bool {
	return m == Encrypt || m == Decrypt
}

// ParseMode accepts "encrypt"/"decrypt" and the short forms "enc"/"dec".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "encrypt", "enc", "e":
		return Encrypt, nil
	case "decrypt", "dec", "d":
		return Decrypt, nil
	default:
		return 0, fmt.Errorf("%w: %q", picerrors.ErrUnknownMode, s)
	}
}
