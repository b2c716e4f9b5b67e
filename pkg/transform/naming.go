package transform

import (
	"path/filepath"
	"strings"
)

// OutputName maps an input base name to the output base name for mode.
// One leading status prefix is stripped before the new one is added, so
// "decrypted_report.txt" encrypts to "encrypted_report.txt".
func OutputName(base string, mode Mode) string {
	if rest, ok := strings.CutPrefix(base, EncryptedPrefix); ok {
		base = rest
	} else if rest, ok := strings.CutPrefix(base, DecryptedPrefix); ok {
		base = rest
	}
	return mode.Prefix() + base
}

// OutputPath places the output next to the input file.
func OutputPath(inputPath string, mode Mode) string {
	return filepath.Join(filepath.Dir(inputPath), OutputName(filepath.Base(inputPath), mode))
}
