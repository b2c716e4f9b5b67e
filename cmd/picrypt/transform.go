package main

import (
	"errors"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/provide-io/picrypt/internal/config"
	"github.com/provide-io/picrypt/pkg/logging"
	"github.com/provide-io/picrypt/pkg/transform"
)

var errNoInput = errors.New("no input file given")

type transformCmdOpts struct {
	use   string
	short string
	verb  string
}

func newTransformCmd(opts transformCmdOpts) *cobra.Command {
	return &cobra.Command{
		Use:   opts.use,
		Short: opts.short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := transform.ParseMode(opts.verb)
			if err != nil {
				return err
			}
			return runTransform(cmd, args, mode)
		},
	}
}

func runTransform(cmd *cobra.Command, args []string, mode transform.Mode) error {
	out := cmd.OutOrStdout()

	if len(args) == 0 || args[0] == "" {
		return reportFailure(out, errNoInput, "Please select a file to %s.", mode)
	}

	engine, logger, err := newEngine(cmd)
	if err != nil {
		return reportFailure(out, err, "Error initializing the application: %v", err)
	}

	result, err := engine.Transform(args[0], mode)
	if err != nil {
		return reportFailure(out, err, "Error %sing file: %v\n---", mode, err)
	}
	logger.Debug("Output checksum", "output", result.OutputPath, "checksum", result.Checksum)

	abs, err := filepath.Abs(result.OutputPath)
	if err != nil {
		abs = result.OutputPath
	}
	if mode == transform.Encrypt {
		reportSuccess(out, "File encrypted successfully!\nOutput Path: %s\n---", abs)
	} else {
		reportSuccess(out, "File decrypted successfully!\nAbsolute Path: %s\n---", abs)
	}
	return nil
}

func newEngine(cmd *cobra.Command) (*transform.Engine, hclog.Logger, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	logger := logging.NewLogger("picrypt", cfg.LogLevel, cfg.LogJSON, cmd.ErrOrStderr())
	if cfg.ConfigFile != "" {
		logger.Debug("Using config file", "path", cfg.ConfigFile)
	}

	engine, err := transform.NewFromFile(cfg.KeySourcePath(),
		transform.WithLogger(logger),
		transform.WithStaging(cfg.Staging),
	)
	if err != nil {
		return nil, nil, err
	}
	return engine, logger, nil
}
