package runner_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/lint"
	"github.com/yaklabco/mdfmt/pkg/runner"
)

func TestRunFiles_Order(t *testing.T) {
	t.Parallel()

	files := make([]string, 50)
	for i := range files {
		files[i] = fmt.Sprintf("file%02d.md", i)
	}

	for _, jobs := range []int{0, 1, 4, 100} {
		t.Run(fmt.Sprintf("jobs=%d", jobs), func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			r := runner.New(runner.ProcessorFunc(func(_ context.Context, path string) runner.FileResult {
				calls.Add(1)
				return runner.FileResult{Changed: path[len(path)-4] == '0'}
			}))
			res, err := r.RunFiles(context.Background(), files, jobs)
			require.NoError(t, err)

			require.Len(t, res.Files, len(files))
			for i, fr := range res.Files {
				assert.Equal(t, files[i], fr.Path)
			}
			assert.Equal(t, int32(len(files)), calls.Load())
			assert.Equal(t, len(files), res.Stats.FilesProcessed)
			assert.Equal(t, 5, res.Stats.FilesChanged)
			assert.True(t, res.HasChanges())
		})
	}
}

func TestRunFiles_Empty(t *testing.T) {
	t.Parallel()

	r := runner.New(runner.ProcessorFunc(func(context.Context, string) runner.FileResult {
		t.Error("processor called without files")
		return runner.FileResult{}
	}))
	res, err := r.RunFiles(context.Background(), nil, 2)
	require.NoError(t, err)
	assert.Empty(t, res.Files)
	assert.False(t, res.HasFailures())
}

func TestRunFiles_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := runner.New(runner.ProcessorFunc(func(context.Context, string) runner.FileResult {
		return runner.FileResult{}
	}))
	res, err := r.RunFiles(ctx, []string{"a.md", "b.md"}, 1)
	require.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, len(res.Files), 2)
}

func TestResultStats(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	results := map[string]runner.FileResult{
		"a.md": {Err: boom},
		"b.md": {Cached: true},
		"c.md": {Changed: true, Written: true, Fixed: 2, Diagnostics: []lint.Diagnostic{
			{RuleID: "MDF001", Severity: config.SeverityError},
			{RuleID: "MDF002"},
		}},
	}
	r := runner.New(runner.ProcessorFunc(func(_ context.Context, path string) runner.FileResult {
		return results[path]
	}))
	res, err := r.RunFiles(context.Background(), []string{"a.md", "b.md", "c.md"}, 2)
	require.NoError(t, err)

	s := res.Stats
	assert.Equal(t, 3, s.FilesDiscovered)
	assert.Equal(t, 2, s.FilesProcessed)
	assert.Equal(t, 1, s.FilesErrored)
	assert.Equal(t, 1, s.FilesCached)
	assert.Equal(t, 1, s.FilesWritten)
	assert.Equal(t, 1, s.FilesWithIssues)
	assert.Equal(t, 2, s.DiagnosticsTotal)
	assert.Equal(t, 2, s.DiagnosticsFixed)
	assert.Equal(t, 1, s.DiagnosticsBySeverity[config.SeverityError])
	assert.Equal(t, 1, s.DiagnosticsBySeverity[config.SeverityWarning])
	assert.True(t, res.HasFailures())
	assert.True(t, res.HasIssues())
	require.ErrorIs(t, res.Files[0].Err, boom)
}

func TestRun_Discovers(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.md": "a\n", "b.qmd": "b\n", "c.txt": "c\n"})

	var seen atomic.Int32
	r := runner.New(runner.ProcessorFunc(func(context.Context, string) runner.FileResult {
		seen.Add(1)
		return runner.FileResult{}
	}))
	res, err := r.Run(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Stats.FilesDiscovered)
	assert.Equal(t, int32(2), seen.Load())

	_, err = r.Run(context.Background(), runner.Options{WorkingDir: dir, Paths: []string{"nope"}})
	require.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Ignore = []string{"vendor/**"}
	cfg.Jobs = 3

	opts := runner.OptionsFromConfig(cfg, []string{"docs"})
	assert.Equal(t, []string{"docs"}, opts.Paths)
	assert.Equal(t, []string{"vendor/**"}, opts.ExcludeGlobs)
	assert.Equal(t, 3, opts.Jobs)
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func mdFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
