// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sassyimport/sassyimport/internal/config"
	"github.com/sassyimport/sassyimport/internal/issue"
)

type stubConfig struct {
	cfg *config.Config
	err error
}

func (s stubConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cfg, nil
}

// runCLI executes the command tree with cfg as the loaded configuration.
func runCLI(t *testing.T, cfg *config.Config, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	var out, errOut bytes.Buffer
	app, err := NewApp(Dependencies{Config: stubConfig{cfg: cfg}, Stdout: &out, Stderr: &errOut})
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}

	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// writeTree creates files under a fresh temp dir and returns the dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, contents := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %T (%v), want *ExitError", err, err)
	}
	return exitErr.Code
}

func TestBuild_Stdout(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"main.scss": "@import \"a\";\n.m { top: 0 }",
		"_a.scss":   ".a { color: red }",
	})

	stdout, stderr, err := runCLI(t, nil, "build", filepath.Join(dir, "main.scss"))
	if err != nil {
		t.Fatalf("build error: %v\nstderr: %s", err, stderr)
	}
	want := ".a {\n  color: red;\n}\n.m {\n  top: 0;\n}\n"
	if diff := cmp.Diff(want, stdout); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
}

func TestBuild_OutputFileAndLoadPaths(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"src/main.scss":      `@import "colors"; @import "tokens";`,
		"lib/_colors.scss":   `$red: #f00;`,
		"vendor/tokens.json": `{"gap": 4}`,
	})
	out := filepath.Join(dir, "dist", "main.css")

	cfg := config.DefaultConfig()
	cfg.LoadPaths = []string{filepath.Join(dir, "vendor")}

	stdout, stderr, err := runCLI(t, cfg, "build", filepath.Join(dir, "src", "main.scss"),
		"-o", out, "-I", filepath.Join(dir, "lib"))
	if err != nil {
		t.Fatalf("build error: %v\nstderr: %s", err, stderr)
	}
	if stdout != "" {
		t.Errorf("stdout should be empty with -o, got %q", stdout)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if diff := cmp.Diff("$red: #f00;\n$gap: 4;\n", string(got)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Dedupe(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"main.scss": `@import "a"; @import "a";`,
		"a.scss":    `$a: 1;`,
	})
	entry := filepath.Join(dir, "main.scss")

	tests := []struct {
		name string
		cfg  func(*config.Config)
		args []string
		want string
	}{
		{name: "default", want: "$a: 1;\n"},
		{name: "flag", args: []string{"--no-dedupe"}, want: "$a: 1;\n$a: 1;\n"},
		{name: "config", cfg: func(c *config.Config) { c.Dedupe = false }, want: "$a: 1;\n$a: 1;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			if tt.cfg != nil {
				tt.cfg(cfg)
			}
			stdout, _, err := runCLI(t, cfg, append([]string{"build", entry}, tt.args...)...)
			if err != nil {
				t.Fatalf("build error: %v", err)
			}
			if stdout != tt.want {
				t.Errorf("stdout = %q, want %q", stdout, tt.want)
			}
		})
	}
}

func TestBuild_VirtualFilesFromConfig(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"main.scss": `@import "theme";`})
	cfg := config.DefaultConfig()
	cfg.VirtualFiles = []config.VirtualFile{{Path: filepath.Join(dir, "theme.scss"), Contents: "$theme: dark;"}}

	stdout, _, err := runCLI(t, cfg, "build", filepath.Join(dir, "main.scss"))
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if stdout != "$theme: dark;\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestBuild_Warnings(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"main.scss": "$k: 1;\n@import \"missing\";"})
	entry := filepath.Join(dir, "main.scss")

	stdout, stderr, err := runCLI(t, nil, "build", entry)
	if err != nil {
		t.Fatalf("build without --strict should succeed: %v", err)
	}
	if stdout != "$k: 1;\n" {
		t.Errorf("stdout = %q", stdout)
	}
	for _, want := range []string{"warning:", entry + ":2:1", `couldn't find import "missing"`} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr lacks %q:\n%s", want, stderr)
		}
	}

	_, stderr, err = runCLI(t, nil, "build", entry, "--strict")
	if code := exitCode(t, err); code != exitWarnings {
		t.Errorf("exit code = %d, want %d", code, exitWarnings)
	}
	if !strings.Contains(stderr, "1 import warning(s)") {
		t.Errorf("stderr lacks the strict failure:\n%s", stderr)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.Issue != issue.WarningsAsErrorsId {
		t.Errorf("error = %v, want ActionableError with WarningsAsErrorsId", err)
	}
}

func TestBuild_OptionalImportIsSilent(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"main.scss": `@import "missing" !optional;`})
	_, stderr, err := runCLI(t, nil, "build", filepath.Join(dir, "main.scss"), "--strict")
	if err != nil {
		t.Fatalf("optional import should not fail a strict build: %v", err)
	}
	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
}

func TestBuild_Failures(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"broken.scss": ".a { color: red;"})

	tests := []struct {
		name  string
		args  []string
		cfg   stubConfig
		want  string
		issue issue.Id
	}{
		{
			name:  "missing entry",
			args:  []string{"build", filepath.Join(dir, "nope.scss")},
			want:  "failed to read stylesheet",
			issue: issue.InputNotFoundId,
		},
		{
			name:  "parse error",
			args:  []string{"build", filepath.Join(dir, "broken.scss")},
			want:  "failed to parse stylesheet",
			issue: issue.StylesheetParseErrorId,
		},
		{
			name: "bad log level",
			args: []string{"build", filepath.Join(dir, "broken.scss"), "--log-level", "loud"},
			want: "invalid --log-level",
		},
		{
			name:  "config failure",
			args:  []string{"build", filepath.Join(dir, "broken.scss")},
			cfg:   stubConfig{err: issue.New(issue.ConfigLoadFailedId, "load configuration", "", config.ErrInvalidConfig)},
			want:  "failed to load configuration",
			issue: issue.ConfigLoadFailedId,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out, errOut bytes.Buffer
			provider := tt.cfg
			if provider.err == nil {
				provider.cfg = config.DefaultConfig()
			}
			app, err := NewApp(Dependencies{Config: provider, Stdout: &out, Stderr: &errOut})
			if err != nil {
				t.Fatal(err)
			}
			root := NewRootCommand(app)
			root.SetArgs(tt.args)
			err = root.ExecuteContext(context.Background())

			if code := exitCode(t, err); code != exitFailure {
				t.Errorf("exit code = %d, want %d", code, exitFailure)
			}
			if !strings.Contains(errOut.String(), tt.want) {
				t.Errorf("stderr lacks %q:\n%s", tt.want, errOut.String())
			}
			if got := issueFor(err); got != tt.issue {
				t.Errorf("issueFor() = %d, want %d", got, tt.issue)
			}
		})
	}
}

func TestBuild_CSSEntry(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{
		"main.css": `a { background: url(//cdn.example/x.png) }`,
	})
	stdout, _, err := runCLI(t, nil, "build", filepath.Join(dir, "main.css"))
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if !strings.Contains(stdout, "//cdn.example/x.png") {
		t.Errorf("CSS entry should not treat // as a comment:\n%s", stdout)
	}
}

func TestBuildPlan_LogLevel(t *testing.T) {
	t.Parallel()

	app, err := NewApp(Dependencies{Config: stubConfig{cfg: config.DefaultConfig()}, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		flags rootFlagValues
		want  string
	}{
		{name: "config default", want: "warn"},
		{name: "flag", flags: rootFlagValues{logLevel: "error"}, want: "error"},
		{name: "verbose", flags: rootFlagValues{logLevel: "error", verbose: true}, want: "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			plan, err := newBuildPlan(context.Background(), app, &tt.flags, &buildFlagValues{}, "main.scss")
			if err != nil {
				t.Fatalf("newBuildPlan() error: %v", err)
			}
			if got := plan.logger.GetLevel().String(); got != tt.want {
				t.Errorf("level = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBuildPlan_WatchRoots(t *testing.T) {
	t.Parallel()

	dir := writeTree(t, map[string]string{"src/main.scss": "", "lib/_a.scss": ""})
	app, err := NewApp(Dependencies{Config: stubConfig{cfg: config.DefaultConfig()}})
	if err != nil {
		t.Fatal(err)
	}

	flags := &buildFlagValues{loadPaths: []string{filepath.Join(dir, "lib"), filepath.Join(dir, "missing")}}
	plan, err := newBuildPlan(context.Background(), app, &rootFlagValues{}, flags, filepath.Join(dir, "src", "main.scss"))
	if err != nil {
		t.Fatal(err)
	}

	want := []string{filepath.Join(dir, "src"), filepath.Join(dir, "lib")}
	if diff := cmp.Diff(want, plan.watchRoots()); diff != "" {
		t.Errorf("watchRoots() mismatch (-want +got):\n%s", diff)
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	if got := (&ExitError{Code: 3}).Error(); got != "exit status 3" {
		t.Errorf("Error() = %q", got)
	}
	inner := errors.New("boom")
	err := &ExitError{Code: 1, Err: inner}
	if err.Error() != "boom" || !errors.Is(err, inner) {
		t.Errorf("ExitError should expose its cause, got %q", err.Error())
	}
}
