package runner_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdfmt/pkg/cache"
	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/fsutil"
	"github.com/yaklabco/mdfmt/pkg/lint"
	"github.com/yaklabco/mdfmt/pkg/lint/rules"
	"github.com/yaklabco/mdfmt/pkg/runner"
	"github.com/yaklabco/mdfmt/pkg/verify"
)

func TestFormatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		setup       func(cfg *config.Config)
		wantChanged bool
		wantWritten bool
		wantDiff    bool
		wantContent string
	}{
		{
			name:        "writes formatted content",
			input:       "* a\n* b\n",
			wantChanged: true,
			wantWritten: true,
			wantContent: "- a\n- b\n",
		},
		{
			name:        "already formatted",
			input:       "- a\n- b\n",
			wantContent: "- a\n- b\n",
		},
		{
			name:        "check leaves file",
			input:       "* a\n",
			setup:       func(cfg *config.Config) { cfg.Check = true },
			wantChanged: true,
			wantContent: "* a\n",
		},
		{
			name:        "diff leaves file",
			input:       "* a\n",
			setup:       func(cfg *config.Config) { cfg.Diff = true },
			wantChanged: true,
			wantDiff:    true,
			wantContent: "* a\n",
		},
		{
			name:        "verified change",
			input:       "Title\n=====\n",
			setup:       func(cfg *config.Config) { cfg.Verify = true },
			wantChanged: true,
			wantWritten: true,
			wantContent: "# Title\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			if tc.setup != nil {
				tc.setup(cfg)
			}
			path := mdFile(t, tc.input)

			res := runner.NewFormatter(cfg, nil).Process(context.Background(), path)
			require.NoError(t, res.Err)
			assert.Equal(t, tc.wantChanged, res.Changed)
			assert.Equal(t, tc.wantWritten, res.Written)
			assert.Equal(t, tc.wantDiff, res.Diff != nil)
			assert.Equal(t, tc.wantContent, readFile(t, path))
		})
	}
}

func TestFormatter_VerifyMismatchKeepsFile(t *testing.T) {
	t.Parallel()

	// Renumbering fancy markers changes the CommonMark rendering.
	input := "(a) x\n(a) y\n"
	path := mdFile(t, input)

	cfg := config.NewConfig()
	cfg.Verify = true
	res := runner.NewFormatter(cfg, nil).Process(context.Background(), path)
	require.ErrorIs(t, res.Err, verify.ErrMismatch)
	assert.False(t, res.Written)
	assert.Equal(t, input, readFile(t, path))
}

func TestFormatter_Cache(t *testing.T) {
	t.Parallel()

	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer c.Close()

	cfg := config.NewConfig()
	path := mdFile(t, "* a\n")
	f := runner.NewFormatter(cfg, c)

	first := f.Process(context.Background(), path)
	require.NoError(t, first.Err)
	assert.True(t, first.Written)
	assert.False(t, first.Cached)

	second := f.Process(context.Background(), path)
	require.NoError(t, second.Err)
	assert.True(t, second.Cached)

	other := config.NewConfig()
	other.LineWidth = 40
	third := runner.NewFormatter(other, c).Process(context.Background(), path)
	assert.False(t, third.Cached, "a different configuration must not hit")
}

func TestFormatter_MissingFile(t *testing.T) {
	t.Parallel()

	res := runner.NewFormatter(nil, nil).Process(context.Background(), filepath.Join(t.TempDir(), "gone.md"))
	require.ErrorIs(t, res.Err, fsutil.ErrNotFound)
}

func TestLinter(t *testing.T) {
	t.Parallel()

	engine := lint.NewEngine(rules.NewRegistry())
	input := "# A\n\n### B\n"

	t.Run("report", func(t *testing.T) {
		t.Parallel()

		path := mdFile(t, input)
		res := runner.NewLinter(config.NewConfig(), engine).Process(context.Background(), path)
		require.NoError(t, res.Err)
		require.Len(t, res.Diagnostics, 1)
		assert.Equal(t, "MDF001", res.Diagnostics[0].RuleID)
		assert.Equal(t, input, readFile(t, path))
	})

	t.Run("fix", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.Fix = true
		path := mdFile(t, input)
		res := runner.NewLinter(cfg, engine).Process(context.Background(), path)
		require.NoError(t, res.Err)
		assert.Empty(t, res.Diagnostics)
		assert.True(t, res.Written)
		assert.Equal(t, 1, res.Fixed)
		assert.Equal(t, "# A\n\n## B\n", readFile(t, path))
	})

	t.Run("fix with diff", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.Fix = true
		cfg.Diff = true
		path := mdFile(t, input)
		res := runner.NewLinter(cfg, engine).Process(context.Background(), path)
		require.NoError(t, res.Err)
		require.NotNil(t, res.Diff)
		assert.False(t, res.Written)
		assert.Equal(t, input, readFile(t, path))
	})
}
