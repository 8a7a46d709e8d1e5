// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level written to stderr.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidConfigError collects field-level validation errors.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// VirtualFile is an in-memory file consulted before the filesystem.
	VirtualFile struct {
		Path     string `json:"path" mapstructure:"path"`
		Contents string `json:"contents" mapstructure:"contents"`
	}

	// Config is the effective CLI configuration.
	Config struct {
		// LoadPaths are searched after the importing file's directory.
		LoadPaths []string `json:"load_paths" mapstructure:"load_paths"`
		// Formats are tried after the built-in filename templates.
		Formats []string `json:"formats" mapstructure:"formats"`
		// Dedupe inlines each file at most once by default.
		Dedupe bool `json:"dedupe" mapstructure:"dedupe"`
		// Debug logs failed imports with their attempted paths.
		Debug bool `json:"debug" mapstructure:"debug"`
		// UnquoteStrings emits data-file strings without quotes.
		UnquoteStrings bool `json:"unquote_strings" mapstructure:"unquote_strings"`
		// LogLevel is the minimum level written to stderr.
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
		// VirtualFiles are consulted before the filesystem.
		VirtualFiles []VirtualFile `json:"virtual_files" mapstructure:"virtual_files"`
	}
)

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error {
	return ErrInvalidLogLevel
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels,
// and a list of validation errors if it is not.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// Validate checks constraints that CUE does not see, notably values that
// arrived through environment variables.
func (c *Config) Validate() error {
	var errs []error

	if ok, fieldErrs := c.LogLevel.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	for i, p := range c.LoadPaths {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, fmt.Errorf("load_paths[%d]: must not be blank", i))
		}
	}
	for i, f := range c.Formats {
		if !strings.Contains(f, "%") {
			errs = append(errs, fmt.Errorf("formats[%d]: %q has no %% placeholder", i, f))
		}
	}
	seen := make(map[string]int, len(c.VirtualFiles))
	for i, vf := range c.VirtualFiles {
		if first, dup := seen[vf.Path]; dup {
			errs = append(errs, fmt.Errorf("virtual_files[%d]: duplicate path %q (same as virtual_files[%d])", i, vf.Path, first))
			continue
		}
		seen[vf.Path] = i
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// VirtualFileMap returns the virtual files keyed by path.
func (c *Config) VirtualFileMap() map[string]string {
	if len(c.VirtualFiles) == 0 {
		return nil
	}
	m := make(map[string]string, len(c.VirtualFiles))
	for _, vf := range c.VirtualFiles {
		m[vf.Path] = vf.Contents
	}
	return m
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LoadPaths:      []string{},
		Formats:        []string{},
		Dedupe:         true,
		Debug:          false,
		UnquoteStrings: false,
		LogLevel:       LogLevelWarn,
	}
}
