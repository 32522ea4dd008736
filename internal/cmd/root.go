package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"ponte/internal/config"
	"ponte/internal/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`

	Chat      ChatCmd      `cmd:"" help:"Start an interactive chat with the agent (default)" default:"1"`
	Sessions  SessionsCmd  `cmd:"sessions" help:"Manage saved sessions"`
	Stats     StatsCmd     `cmd:"stats" help:"Show query and token usage statistics"`
	Ask       AskCmd       `cmd:"ask" help:"Raise an ask request from inside the agent" hidden:""`
	PlaySound PlaySoundCmd `cmd:"play-sound" help:"Play notification sound (cross-platform)" hidden:""`

	// Internal fields (not flags)
	Container *Container       `kong:"-"`
	settings  *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply() error {
	// Precedence: CLI flags > env vars > settings.json > defaults
	if c.settings != nil {
		if c.MaxLogFiles == 1000 {
			if _, hasEnv := os.LookupEnv("PONTE_MAX_LOG_FILES"); !hasEnv {
				if c.settings.MaxLogFiles != nil {
					c.MaxLogFiles = *c.settings.MaxLogFiles
				}
			}
		}
		if !c.Debug {
			if _, hasEnv := os.LookupEnv("PONTE_DEBUG"); !hasEnv {
				if c.settings.Debug != nil && *c.settings.Debug {
					c.Debug = true
				}
			}
		}
	}

	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// Export AFTER initialization so the agent subprocess and the hidden ask
	// command append to the same log file
	if c.Debug || c.DebugFile != "" {
		os.Setenv("PONTE_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("PONTE_DEBUG_FILE", logFilePath)
		}
	}
	if c.MaxLogFiles != 1000 {
		os.Setenv("PONTE_MAX_LOG_FILES", fmt.Sprintf("%d", c.MaxLogFiles))
	}

	settings := c.settings
	if settings == nil {
		settings = &config.Settings{}
	}
	container, err := NewContainer(settings)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	c.Container = container

	return nil
}

// Close closes all resources held by the CLI
func (c *CLI) Close() error {
	if c.Container != nil {
		return c.Container.Close()
	}
	return nil
}
