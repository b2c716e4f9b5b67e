// Package errors holds the sentinel errors shared by the key loader and the
// transform engine. Call sites wrap them together with the underlying cause,
// so errors.Is matches both the sentinel and e.g. fs.ErrNotExist.
package errors

import "errors"

var (
	// Key source errors 🔑
	ErrKeySourceUnreadable = errors.New("❌ key source unreadable")
	ErrEmptyKeySequence    = errors.New("❌ key source contains no digits")
	ErrInvalidDigit        = errors.New("❌ key digit out of range 0-9")

	// Transform errors 🔁
	ErrInputUnreadable  = errors.New("❌ input file unreadable")
	ErrOutputUnwritable = errors.New("❌ output file unwritable")
	ErrUnknownMode      = errors.New("❌ unknown transform mode")
)
