package main

import (
	"io"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed)
	noticeColor  = color.New(color.FgYellow)
)

// reportedError is returned by commands that already printed the failure to
// the user.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

func reportSuccess(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, format+"\n", args...)
}

func reportNotice(w io.Writer, format string, args ...any) {
	noticeColor.Fprintf(w, format+"\n", args...)
}

func reportFailure(w io.Writer, err error, format string, args ...any) error {
	failureColor.Fprintf(w, format+"\n", args...)
	return reportedError{err}
}
