// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/sassyimport/sassyimport/internal/issue"
	"github.com/sassyimport/sassyimport/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "sassyimport"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LocalConfigFileName is looked up in the working directory when the
	// user config directory holds no config file.
	LocalConfigFileName = AppName + "." + ConfigFileExt
	// EnvPrefix prefixes environment variable overrides.
	EnvPrefix = "SASSYIMPORT"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the sassyimport configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads the configuration and reports which file it came from. The
// path is empty when only defaults and environment variables applied.
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("load_paths", defaults.LoadPaths)
	v.SetDefault("formats", defaults.Formats)
	v.SetDefault("dedupe", defaults.Dedupe)
	v.SetDefault("debug", defaults.Debug)
	v.SetDefault("unquote_strings", defaults.UnquoteStrings)
	v.SetDefault("log_level", string(defaults.LogLevel))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := locate(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.New(issue.ConfigLoadFailedId, "load configuration", resolvedPath, err,
				"Check that the file contains valid CUE syntax",
				"Verify the configuration values match the expected schema",
				"Use 'sassyimport config show' to see the default configuration")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.New(issue.ConfigLoadFailedId, "validate configuration", resolvedPath, err,
			"Check "+EnvPrefix+"_* environment variables as well as the config file")
	}

	return &cfg, resolvedPath, nil
}

// locate picks the config file to read. An explicit path must exist; the
// directory and local lookups are optional.
func locate(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.New(issue.ConfigLoadFailedId, "load configuration", opts.ConfigFilePath,
				fmt.Errorf("config file not found: %s", opts.ConfigFilePath),
				"Verify the file path is correct",
				"Check that the file exists and is readable")
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return "", err
		}
		cfgDir = dir
	}
	if p := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fileExists(p) {
		return p, nil
	}

	if p := filepath.Join(opts.BaseDir, LocalConfigFileName); fileExists(p) {
		return p, nil
	}
	return "", nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// The file decodes to map[string]any rather than Config so that Viper keeps
// its defaults for absent fields and can still apply env overrides.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	res, err := cueutil.ParseAndDecode[map[string]any](configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*res.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// sassyimport configuration\n\n")

	writeList(&sb, "load_paths", cfg.LoadPaths)
	writeList(&sb, "formats", cfg.Formats)

	fmt.Fprintf(&sb, "dedupe: %v\n", cfg.Dedupe)
	fmt.Fprintf(&sb, "debug: %v\n", cfg.Debug)
	fmt.Fprintf(&sb, "unquote_strings: %v\n", cfg.UnquoteStrings)
	fmt.Fprintf(&sb, "log_level: %q\n", cfg.LogLevel)

	if len(cfg.VirtualFiles) > 0 {
		sb.WriteString("\nvirtual_files: [\n")
		for _, vf := range cfg.VirtualFiles {
			fmt.Fprintf(&sb, "\t{path: %q, contents: %q},\n", vf.Path, vf.Contents)
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}

func writeList(sb *strings.Builder, key string, values []string) {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	fmt.Fprintf(sb, "%s: [%s]\n", key, strings.Join(quoted, ", "))
}
