package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yaklabco/mdfmt/pkg/runner"
)

// writeTree creates files under dir with placeholder content.
func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("setup mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("setup write: %v", err)
		}
	}
}

func rel(t *testing.T, dir string, paths []string) []string {
	t.Helper()

	out := make([]string, len(paths))
	for i, p := range paths {
		r, err := filepath.Rel(dir, p)
		if err != nil {
			t.Fatalf("rel: %v", err)
		}
		out[i] = filepath.ToSlash(r)
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	tree := map[string]string{
		"readme.md":              "# R\n",
		"docs/guide.md":          "# G\n",
		"docs/api.markdown":      "# A\n",
		"docs/report.qmd":        "# Q\n",
		"docs/analysis.Rmd":      "# R\n",
		"docs/NOTES.MD":          "# N\n",
		"docs/draft.tmp.md":      "# D\n",
		"docs/private/secret.md": "# S\n",
		"vendor/lib/readme.md":   "# V\n",
		".hidden/skip.md":        "# H\n",
		".dotfile.md":            "# H\n",
		"src/main.go":            "package main\n",
		"notes.txt":              "text\n",
	}

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "all markdown",
			opts: runner.Options{},
			want: []string{
				"docs/NOTES.MD", "docs/analysis.Rmd", "docs/api.markdown", "docs/draft.tmp.md",
				"docs/guide.md", "docs/private/secret.md", "docs/report.qmd", "readme.md",
				"vendor/lib/readme.md",
			},
		},
		{
			name: "excludes",
			opts: runner.Options{ExcludeGlobs: []string{"vendor/**", "*.tmp.md", "docs/private"}},
			want: []string{
				"docs/NOTES.MD", "docs/analysis.Rmd", "docs/api.markdown", "docs/guide.md",
				"docs/report.qmd", "readme.md",
			},
		},
		{
			name: "double star anywhere",
			opts: runner.Options{ExcludeGlobs: []string{"**/readme.md"}},
			want: []string{
				"docs/NOTES.MD", "docs/analysis.Rmd", "docs/api.markdown", "docs/draft.tmp.md",
				"docs/guide.md", "docs/private/secret.md", "docs/report.qmd",
			},
		},
		{
			name: "custom extensions",
			opts: runner.Options{Extensions: []string{".QMD"}},
			want: []string{"docs/report.qmd"},
		},
		{
			name: "explicit paths deduplicated",
			opts: runner.Options{Paths: []string{"docs/guide.md", "docs/guide.md", "./readme.md"}},
			want: []string{"docs/guide.md", "readme.md"},
		},
		{
			name: "explicit hidden file",
			opts: runner.Options{Paths: []string{".dotfile.md"}},
			want: []string{".dotfile.md"},
		},
		{
			name: "explicit non markdown file",
			opts: runner.Options{Paths: []string{"notes.txt"}},
			want: []string{},
		},
	}

	dir := t.TempDir()
	writeTree(t, dir, tree)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			opts := tc.opts
			opts.WorkingDir = dir
			got, err := runner.Discover(context.Background(), opts)
			if err != nil {
				t.Fatalf("Discover() error = %v", err)
			}
			if diff := cmp.Diff(tc.want, rel(t, dir, got)); diff != "" {
				t.Errorf("Discover() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiscover_AbsolutePaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.md": "a\n"})

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{filepath.Join(dir, "a.md")},
		WorkingDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(files) != 1 || files[0] != filepath.Join(dir, "a.md") {
		t.Errorf("Discover() = %v", files)
	}
}

func TestDiscover_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	if _, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"missing"},
		WorkingDir: dir,
	}); err == nil {
		t.Error("expected error for missing path")
	}

	if _, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir:   dir,
		ExcludeGlobs: []string{"[unclosed"},
	}); err == nil {
		t.Error("expected error for invalid pattern")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runner.Discover(ctx, runner.Options{WorkingDir: dir}); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestDiscover_DirectorySymlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := t.TempDir()
	writeTree(t, target, map[string]string{"linked.md": "# L\n"})
	writeTree(t, dir, map[string]string{"local.md": "# L\n"})
	if err := os.Symlink(target, filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	// A cycle back to the root must not hang the walk.
	if err := os.Symlink(dir, filepath.Join(target, "back")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(files) != 1 {
		t.Errorf("without following: got %v", files)
	}

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, FollowSymlinks: true})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	want := []string{filepath.Join(dir, "local.md"), filepath.Join(target, "linked.md")}
	if diff := cmp.Diff(len(want), len(files)); diff != "" {
		t.Errorf("following: got %v, want %v", files, want)
	}
}

func TestDefaultExtensions(t *testing.T) {
	t.Parallel()

	want := []string{".md", ".markdown", ".qmd", ".rmd"}
	if diff := cmp.Diff(want, runner.DefaultExtensions()); diff != "" {
		t.Errorf("DefaultExtensions() mismatch (-want +got):\n%s", diff)
	}
}
