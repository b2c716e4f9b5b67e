//go:build !windows

package transform

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
)

// replaceFile moves the staged output over dest. rename(2) replaces an
// existing dest atomically.
func replaceFile(staged, dest string, logger hclog.Logger) error {
	logger.Debug("Renaming staged output", "staged", staged, "dest", dest)

	if err := os.Rename(staged, dest); err != nil {
		return fmt.Errorf("failed to rename staged output: %w", err)
	}
	return nil
}
