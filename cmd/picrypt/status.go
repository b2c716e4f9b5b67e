package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/provide-io/picrypt/pkg/keysource"
	"github.com/provide-io/picrypt/pkg/transform"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <file>...",
		Short: "Report whether files are plaintext, encrypted or decrypted",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var firstErr error
			for _, path := range args {
				status, err := transform.DetectFile(path)
				if err != nil {
					failureColor.Fprintf(out, "%s: %v\n", path, err)
					if firstErr == nil {
						firstErr = reportedError{err}
					}
					continue
				}
				fmt.Fprintf(out, "%s: %s\n", path, status)
			}
			return firstErr
		},
	}
}

const infoText = `picrypt - file encryption keyed by the digits of pi

Every byte of the selected file is shifted by the next digit of the key
source, cycling back to the first digit when the key runs out. Encrypted
output starts with the line
    %s
and decrypting replaces it with
    %s

Files used by the program:
  - %s: the key source; every decimal digit in it is a key digit.

To use the application:
  1. picrypt encrypt <file>   writes encrypted_<file> next to it.
  2. picrypt decrypt <file>   writes decrypted_<file> next to it.
  3. picrypt status <file>    shows which marker a file carries.
`

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show program information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			reportNotice(cmd.OutOrStdout(), infoText,
				transform.EncryptedMarker, transform.DecryptedMarker, keysource.DefaultPath)
		},
	}
}
