package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Discover returns the sorted, de-duplicated absolute paths of the Markdown
// files named by opts. Hidden files and directories are skipped while
// walking; a hidden file named explicitly is kept.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	d, err := newDiscoverer(opts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, p := range opts.paths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(d.workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			if d.isMarkdown(abs) && !d.excluded(abs, false) {
				add(abs)
			}
			continue
		}
		if err := d.walk(ctx, abs, add); err != nil {
			return nil, err
		}
	}

	slices.Sort(files)
	return files, nil
}

type discoverer struct {
	workDir    string
	extensions []string
	excludes   []exclude
	follow     bool
	visited    map[string]struct{}
}

type exclude struct {
	pattern  glob.Glob
	baseName bool
}

func newDiscoverer(opts Options) (*discoverer, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}
	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{
		workDir: workDir,
		follow:  opts.FollowSymlinks,
		visited: make(map[string]struct{}),
	}
	for _, ext := range opts.extensions() {
		d.extensions = append(d.extensions, strings.ToLower(ext))
	}
	for _, p := range opts.ExcludeGlobs {
		p = strings.TrimPrefix(filepath.ToSlash(p), "./")
		if err := d.addExclude(p); err != nil {
			return nil, err
		}
		// "**/x" also matches x at the top level.
		if rest, ok := strings.CutPrefix(p, "**/"); ok && rest != "" {
			if err := d.addExclude(rest); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}

func (d *discoverer) addExclude(pattern string) error {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return fmt.Errorf("exclude pattern %q: %w", pattern, err)
	}
	d.excludes = append(d.excludes, exclude{pattern: g, baseName: !strings.Contains(pattern, "/")})
	return nil
}

func (d *discoverer) isMarkdown(path string) bool {
	return slices.Contains(d.extensions, strings.ToLower(filepath.Ext(path)))
}

// excluded matches path, relative to the working directory, against the
// exclude patterns. A directory also matches "dir/**".
func (d *discoverer) excluded(path string, dir bool) bool {
	rel, err := filepath.Rel(d.workDir, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)
	for _, ex := range d.excludes {
		switch {
		case ex.baseName && ex.pattern.Match(base),
			ex.pattern.Match(rel),
			dir && ex.pattern.Match(rel+"/"):
			return true
		}
	}
	return false
}

func (d *discoverer) walk(ctx context.Context, root string, add func(string)) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")
		if entry.IsDir() {
			if path != root && (hidden || d.excluded(path, true)) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // Unreadable targets are skipped.
			}
			if info.IsDir() {
				if !d.follow || d.excluded(path, true) {
					return nil
				}
				if _, ok := d.visited[target]; ok {
					return nil
				}
				d.visited[target] = struct{}{}
				// Walk the target: WalkDir does not descend into a symlink root.
				return d.walk(ctx, target, add)
			}
		}

		if d.isMarkdown(path) && !d.excluded(path, false) {
			add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}
