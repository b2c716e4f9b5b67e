//go:build windows

package transform

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sys/windows"
)

// replaceFile moves the staged output over dest with MoveFileEx, retrying
// while another process (often a virus scanner) still holds dest open.
func replaceFile(staged, dest string, logger hclog.Logger) error {
	logger.Debug("Renaming staged output", "staged", staged, "dest", dest)

	fromPtr, err := windows.UTF16PtrFromString(staged)
	if err != nil {
		return fmt.Errorf("failed to convert staged path to UTF-16: %w", err)
	}
	toPtr, err := windows.UTF16PtrFromString(dest)
	if err != nil {
		return fmt.Errorf("failed to convert dest path to UTF-16: %w", err)
	}

	var flags uint32 = windows.MOVEFILE_REPLACE_EXISTING | windows.MOVEFILE_WRITE_THROUGH

	const maxAttempts = 3
	delay := 50 * time.Millisecond

	for attempt := 1; ; attempt++ {
		err = windows.MoveFileEx(fromPtr, toPtr, flags)
		if err == nil {
			return nil
		}
		if attempt == maxAttempts {
			return fmt.Errorf("failed to rename staged output after %d attempts: %w", maxAttempts, err)
		}

		logger.Debug("Retrying staged output rename",
			"attempt", attempt,
			"next_delay_ms", delay.Milliseconds(),
			"error", err)

		time.Sleep(delay)
		delay *= 2
	}
}
