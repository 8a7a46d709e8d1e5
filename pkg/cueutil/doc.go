// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// It wraps the 3-step CUE parsing pattern:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with schema
//  3. Validate and decode to a Go value
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	result, err := cueutil.ParseAndDecode[map[string]any](
//	    schema,
//	    userFileBytes,
//	    "#Config",
//	    cueutil.WithFilename("sassyimport.cue"),
//	    cueutil.WithConcrete(false),
//	)
//	if err != nil {
//	    return nil, err  // Error includes CUE path for debugging
//	}
package cueutil
