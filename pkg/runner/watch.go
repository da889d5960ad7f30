package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/mdfmt/internal/logging"
)

// DefaultDebounce is how long Watch waits for a burst of events to settle.
const DefaultDebounce = 100 * time.Millisecond

// ChangeFunc receives the Markdown files changed since the last call.
type ChangeFunc func(ctx context.Context, files []string)

// Watch calls fn with the Markdown files under opts' paths whenever they are
// written or created, until ctx is done. Events within debounce of each
// other are delivered together. Directories created later are watched too.
func Watch(ctx context.Context, opts Options, debounce time.Duration, fn ChangeFunc) error {
	d, err := newDiscoverer(opts)
	if err != nil {
		return err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	w := &watch{d: d, fsw: watcher, files: make(map[string]struct{})}
	for _, p := range opts.paths() {
		if err := w.add(p); err != nil {
			return err
		}
	}

	logger := logging.FromContext(ctx)
	pending := make(map[string]struct{})
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						logger.Debug("watch directory", logging.FieldPath, event.Name, logging.FieldError, err)
					}
					continue
				}
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if w.relevant(event.Name) {
				pending[event.Name] = struct{}{}
				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", logging.FieldError, err)

		case <-timer.C:
			files := make([]string, 0, len(pending))
			for f := range pending {
				files = append(files, f)
			}
			clear(pending)
			slices.Sort(files)
			fn(ctx, files)
		}
	}
}

type watch struct {
	d   *discoverer
	fsw *fsnotify.Watcher

	// files holds explicitly named files; their directories are watched
	// but only they are reported.
	files map[string]struct{}
	dirs  []string
}

func (w *watch) add(p string) error {
	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(w.d.workDir, abs)
	}
	abs = filepath.Clean(abs)

	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("stat %s: %w", p, err)
	}
	if !info.IsDir() {
		w.files[abs] = struct{}{}
		if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
		}
		return nil
	}
	return w.addTree(abs)
}

// addTree watches root and its directories that discovery would enter.
func (w *watch) addTree(root string) error {
	w.dirs = append(w.dirs, root)
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil || !entry.IsDir() {
			return nil //nolint:nilerr // Unreadable entries are not watched.
		}
		if path != root && (strings.HasPrefix(entry.Name(), ".") || w.d.excluded(path, true)) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// relevant reports whether a change to path should be reported.
func (w *watch) relevant(path string) bool {
	if _, ok := w.files[path]; ok {
		return true
	}
	if strings.HasPrefix(filepath.Base(path), ".") || !w.d.isMarkdown(path) || w.d.excluded(path, false) {
		return false
	}
	for _, dir := range w.dirs {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
