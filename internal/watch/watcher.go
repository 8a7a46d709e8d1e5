// SPDX-License-Identifier: MPL-2.0

// Package watch rebuilds on stylesheet changes.
//
// It monitors one or more root directories for files matching glob patterns
// and invokes a callback after a debounce period. Events within the debounce
// window are coalesced so the callback fires once with the full set of
// changed paths.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce coalesces an editor's write-then-rename into one rebuild.
const defaultDebounce = 200 * time.Millisecond

// DefaultPatterns select every file an import can resolve to.
var DefaultPatterns = []string{"**/*.{scss,css,json,jsonc,yaml,yml,toml}"}

// defaultIgnores are always excluded, on top of user ignores.
var defaultIgnores = []string{
	"**/.git/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

var errRunTwice = errors.New("watch: Run called more than once")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Roots are watched recursively. Empty means the working directory.
		Roots []string

		// Patterns are doublestar globs, relative to the root that contains
		// the file. Empty means DefaultPatterns.
		Patterns []string

		// Ignore are extra doublestar globs that never trigger callbacks.
		Ignore []string

		// Exclude lists files that never trigger callbacks, typically the
		// build output.
		Exclude []string

		// Debounce is the quiet period after the last event. Zero or negative
		// values fall back to defaultDebounce.
		Debounce time.Duration

		// OnChange receives the sorted absolute paths that changed. A nil
		// callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Logger receives diagnostics. Nil discards them.
		Logger *log.Logger
	}

	// Watcher fires a debounced callback when matching files change. Run
	// must be called exactly once.
	Watcher struct {
		fsw      *fsnotify.Watcher
		roots    []string
		patterns []string
		ignores  []string
		exclude  map[string]struct{}
		debounce time.Duration
		onChange func(context.Context, []string) error
		logger   *log.Logger
		started  atomic.Bool
	}
)

// New validates cfg, creates the fsnotify watcher and registers every
// non-ignored directory under each root.
func New(cfg Config) (*Watcher, error) {
	roots, err := absRoots(cfg.Roots)
	if err != nil {
		return nil, err
	}

	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	if err := validatePatterns(patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	exclude := make(map[string]struct{}, len(cfg.Exclude))
	for _, p := range cfg.Exclude {
		if abs, err := filepath.Abs(p); err == nil {
			exclude[abs] = struct{}{}
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		roots:    roots,
		patterns: patterns,
		ignores:  slices.Concat(defaultIgnores, cfg.Ignore),
		exclude:  exclude,
		debounce: debounce,
		onChange: cfg.OnChange,
		logger:   logger,
	}

	for _, root := range roots {
		if err := w.addDirectories(root); err != nil {
			if closeErr := fsw.Close(); closeErr != nil {
				logger.Warn("watch: close after init failure", "err", closeErr)
			}
			return nil, err
		}
	}

	return w, nil
}

// Roots returns the absolute directories being watched.
func (w *Watcher) Roots() []string {
	return slices.Clone(w.roots)
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when the watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errRunTwice
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may run after cancellation via time.AfterFunc, hence the ctx check.
	// Only one callback runs at a time; a busy fire re-arms the timer so
	// pending events are not lost.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("rebuild still running, deferring")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.onChange != nil {
			if err := w.onChange(ctx, changed); err != nil {
				w.logger.Error("rebuild failed", "err", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("watch: close fsnotify", "err", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			if !w.relevant(evt.Name) {
				continue
			}

			w.logger.Debug("change", "path", evt.Name, "op", evt.Op.String())
			mu.Lock()
			pending[filepath.Clean(evt.Name)] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			if fatal(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("watch: fsnotify error", "err", err)
		}
	}
}

// fatal reports whether err wraps one of the platform's fatalErrnos.
func fatal(err error) bool {
	return slices.ContainsFunc(fatalErrnos, func(errno syscall.Errno) bool {
		return errors.Is(err, errno)
	})
}

// relevant reports whether a changed path should trigger a rebuild.
func (w *Watcher) relevant(path string) bool {
	abs := filepath.Clean(path)
	if _, ok := w.exclude[abs]; ok {
		return false
	}
	rel, ok := w.relative(abs)
	if !ok || w.isIgnored(rel) {
		return false
	}
	return matchAny(w.patterns, rel)
}

// relative returns abs relative to the deepest root containing it.
func (w *Watcher) relative(abs string) (string, bool) {
	best := ""
	for _, root := range w.roots {
		if (abs == root || strings.HasPrefix(abs, root+string(filepath.Separator))) && len(root) > len(best) {
			best = root
		}
	}
	if best == "" {
		return "", false
	}
	rel, err := filepath.Rel(best, abs)
	if err != nil {
		return "", false
	}
	return rel, true
}

// addDirectories registers root and every non-ignored directory below it.
// Unreadable directories are skipped.
func (w *Watcher) addDirectories(root string) error {
	walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			w.logger.Warn("watch: skipping inaccessible path", "path", path, "err", walkDirErr)
			return nil //nolint:nilerr // intentional skip of inaccessible paths
		}
		if !d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil //nolint:nilerr // skip paths that cannot be made relative
		}
		if w.isIgnored(rel) || w.isIgnored(rel+"/") {
			return filepath.SkipDir
		}

		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}
	return nil
}

// maybeAddDir extends the watch to directories created after startup.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	rel, ok := w.relative(filepath.Clean(path))
	if !ok || w.isIgnored(rel) || w.isIgnored(rel+"/") {
		return
	}
	if addErr := w.fsw.Add(path); addErr != nil {
		w.logger.Warn("watch: add new directory", "path", path, "err", addErr)
	}
}

func (w *Watcher) isIgnored(rel string) bool {
	return matchAny(w.ignores, rel)
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

func matchAny(patterns []string, rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range patterns {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

func absRoots(roots []string) ([]string, error) {
	if len(roots) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		roots = []string{wd}
	}

	out := make([]string, 0, len(roots))
	for _, r := range roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve root %q: %w", r, err)
		}
		if !slices.Contains(out, abs) {
			out = append(out, abs)
		}
	}
	return out, nil
}

// validatePatterns checks that every pattern is a valid doublestar glob.
func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q: %w", label, pat, doublestar.ErrBadPattern)
		}
	}
	return nil
}
