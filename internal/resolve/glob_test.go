// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/go-cmp/cmp"

	"github.com/sassyimport/sassyimport/internal/fsload"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestExpand_FilesOnlyAndOrdered(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.scss"))
	touch(t, filepath.Join(dir, "b.scss"))
	touch(t, filepath.Join(dir, "nested", "c.scss"))
	if err := os.MkdirAll(filepath.Join(dir, "dir.scss"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Expand(context.Background(), []string{filepath.Join(dir, "*.scss")}, nil)
	if err != nil {
		t.Fatalf("Expand() error: %v", err)
	}
	want := []string{filepath.Join(dir, "a.scss"), filepath.Join(dir, "b.scss")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Expand() mismatch (-want +got):\n%s", diff)
	}
}

func TestExpand_DoubleStar(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.scss"))
	touch(t, filepath.Join(dir, "x", "y", "b.scss"))
	touch(t, filepath.Join(dir, "x", "c.css"))

	got, err := Expand(context.Background(), []string{filepath.Join(dir, "**", "*.scss")}, nil)
	if err != nil {
		t.Fatalf("Expand() error: %v", err)
	}
	want := []string{filepath.Join(dir, "a.scss"), filepath.Join(dir, "x", "y", "b.scss")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Expand() mismatch (-want +got):\n%s", diff)
	}
}

func TestExpand_OverlayAndDedupe(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.scss"))
	overlay := fsload.NewOverlay(map[string]string{
		filepath.Join(dir, "v.scss"): "$v: 1;",
		filepath.Join(dir, "a.scss"): "shadowed",
	})

	patterns := []string{
		filepath.Join(dir, "*.scss"),
		filepath.Join(dir, "{a,v}.scss"),
	}
	got, err := Expand(context.Background(), patterns, overlay)
	if err != nil {
		t.Fatalf("Expand() error: %v", err)
	}
	want := []string{filepath.Join(dir, "a.scss"), filepath.Join(dir, "v.scss")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Expand() mismatch (-want +got):\n%s", diff)
	}
}

func TestExpand_RelativePatternMatchesOverlay(t *testing.T) {
	t.Parallel()

	overlay := fsload.NewOverlay(map[string]string{
		"parts/a.scss": "$a: 1;",
		"parts/b.css":  ".b {}",
	})
	got, err := Expand(context.Background(), []string{filepath.Join("parts", "*.scss")}, overlay)
	if err != nil {
		t.Fatalf("Expand() error: %v", err)
	}
	want := []string{fsload.Canonical(filepath.Join("parts", "a.scss"))}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Expand() mismatch (-want +got):\n%s", diff)
	}
}

func TestExpand_NoMatchesIsEmpty(t *testing.T) {
	t.Parallel()

	got, err := Expand(context.Background(), []string{filepath.Join(t.TempDir(), "missing", "*.scss")}, nil)
	if err != nil {
		t.Fatalf("Expand() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expand() = %v, want empty", got)
	}
}

func TestExpand_BadPattern(t *testing.T) {
	t.Parallel()

	_, err := Expand(context.Background(), []string{filepath.Join(t.TempDir(), "[")}, nil)
	var ioErr *fsload.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("Expand() error = %v, want *fsload.IOError", err)
	}
	if ioErr.Op != "glob" || !errors.Is(err, doublestar.ErrBadPattern) {
		t.Errorf("IOError = %+v, want glob op wrapping ErrBadPattern", ioErr)
	}
}

func TestExpand_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Expand(ctx, []string{filepath.Join(t.TempDir(), "*")}, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Expand() error = %v, want context.Canceled", err)
	}
}
