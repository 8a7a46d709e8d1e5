// SPDX-License-Identifier: MPL-2.0

// Package config handles sassyimport configuration using Viper with CUE as the file format.
//
// Configuration is read from the first of: an explicit --config path,
// $XDG_CONFIG_HOME/sassyimport/config.cue (%APPDATA% on Windows,
// ~/Library/Application Support on macOS), or ./sassyimport.cue. Values are
// validated against the embedded config_schema.cue and may be overridden by
// SASSYIMPORT_* environment variables.
package config
