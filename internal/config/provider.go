// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions selects where configuration is read from.
	LoadOptions struct {
		// ConfigFilePath must exist when set, and is then the only file read.
		ConfigFilePath string
		// ConfigDirPath replaces the platform config directory.
		ConfigDirPath string
		// BaseDir is searched for sassyimport.cue. Empty means the working directory.
		BaseDir string
	}

	// ProviderFunc adapts a function to the CLI's configuration source.
	ProviderFunc func(ctx context.Context, opts LoadOptions) (*Config, error)
)

// Files reads CUE configuration from disk and discards the resolved path.
var Files = ProviderFunc(func(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := Load(ctx, opts)
	return cfg, err
})

// Load calls f.
func (f ProviderFunc) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	return f(ctx, opts)
}
