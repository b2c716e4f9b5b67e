package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/provide-io/picrypt/internal/config"
)

const version = "0.1.0"

func buildTimestamp() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "picrypt %s\n", version)
	fmt.Fprintf(w, "Built: %s\n", buildTimestamp())
}

func newRootCmd() *cobra.Command {
	var versionFlag bool

	root := &cobra.Command{
		Use:   "picrypt",
		Short: "Encrypt and decrypt files with a digits-of-pi key",
		Long: `picrypt shifts every byte of a file by the next digit of a key source
(conventionally the digits of pi) and marks the result so it can be
reversed. It is a toy cipher and offers no protection against an adversary.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if versionFlag {
				printVersion(cmd.OutOrStdout())
				return nil
			}
			return cmd.Help()
		},
	}

	config.RegisterFlags(root.PersistentFlags())
	root.Flags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	root.AddCommand(
		newTransformCmd(transformCmdOpts{
			use:   "encrypt [file]",
			short: "Encrypt a file into encrypted_<name>",
			verb:  "encrypt",
		}),
		newTransformCmd(transformCmdOpts{
			use:   "decrypt [file]",
			short: "Decrypt a file into decrypted_<name>",
			verb:  "decrypt",
		}),
		newStatusCmd(),
		newInfoCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				printVersion(cmd.OutOrStdout())
			},
		},
	)

	return root
}

// printUnreported writes err to w unless a command already reported it.
// Only cobra's usage errors normally reach here unprinted.
func printUnreported(w io.Writer, err error) {
	var reported reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintln(w, err)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printUnreported(os.Stderr, err)
		os.Exit(1)
	}
}
