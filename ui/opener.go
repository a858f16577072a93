package ui

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/rs/zerolog"
)

// Opener opens a URL outside the application
type Opener interface {
	Open(url string) error
}

// SystemOpener opens URLs with the operating system's default handler
type SystemOpener struct {
	logger zerolog.Logger
}

// NewSystemOpener creates an opener for the current platform
func NewSystemOpener(logger zerolog.Logger) *SystemOpener {
	return &SystemOpener{logger: logger}
}

// Open starts the platform handler without waiting for it
func (o *SystemOpener) Open(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	o.logger.Debug().Str("os", runtime.GOOS).Str("url", url).Msg("Opening URL with system default")

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}
