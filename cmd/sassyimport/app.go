// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/sassyimport/sassyimport/internal/config"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives an App and writes through its streams.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.Files
	}

	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}, nil
}

// loadConfig reads the configuration selected by the root flags.
func (a *App) loadConfig(ctx context.Context, flags *rootFlagValues) (*config.Config, error) {
	return a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
}

// newLogger builds the diagnostics logger. The --log-level flag wins over
// the configured level, and --verbose lowers either to debug.
func (a *App) newLogger(cfg *config.Config, flags *rootFlagValues) (*log.Logger, error) {
	levelName := string(cfg.LogLevel)
	if flags.logLevel != "" {
		levelName = flags.logLevel
	}
	if flags.verbose {
		levelName = string(config.LogLevelDebug)
	}

	level, err := log.ParseLevel(strings.ToLower(levelName))
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", levelName, err)
	}

	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	}), nil
}
