// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxFileSize bounds the size of user CUE files (1 MiB).
const DefaultMaxFileSize int64 = 1 << 20

type (
	// ParseResult contains the result of a successful CUE parse operation.
	ParseResult[T any] struct {
		// Value is the decoded Go value.
		Value *T

		// Unified is the unified CUE value.
		Unified cue.Value
	}

	// Option configures ParseAndDecode.
	Option func(*options)

	options struct {
		filename    string
		concrete    bool
		maxFileSize int64
	}
)

func defaultOptions() options {
	return options{concrete: true, maxFileSize: DefaultMaxFileSize}
}

// WithFilename sets the filename used in error messages and CUE positions.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithConcrete controls whether every field must have a concrete value.
// Configuration files, where most fields are optional, pass false.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(n int64) Option {
	return func(o *options) { o.maxFileSize = n }
}

// ParseAndDecode compiles schema, unifies data with the definition at
// schemaPath (e.g. "#Config"), validates the result and decodes it into T.
// Invalid user data yields an *Error listing each offending field.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	filename := o.filename
	if filename == "" {
		filename = "<input>"
	}

	if err := checkSize(data, o.maxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return nil, newError(filename, userValue.Err())
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	unified := schemaRoot.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, newError(filename, err)
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, newError(filename, err)
	}

	return &ParseResult[T]{
		Value:   &result,
		Unified: unified,
	}, nil
}
