package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdfmt/pkg/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func noEnv(string) (string, bool) { return "", false }

// isolated returns options that ignore machine and user state.
func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		LookupEnv:          noEnv,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, config.NewConfig(), result.Config)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: ".mdfmt.yml",
			content: `flavor: quarto
line_width: 72
code_blocks:
  fence_style: tilde
formatters:
  python:
    cmd: black
    args: ["-q", "-"]
rules:
  MDF001:
    enabled: false
`,
		},
		{
			name: "toml",
			file: ".mdfmt.toml",
			content: `flavor = "quarto"
line_width = 72

[code_blocks]
fence_style = "tilde"

[formatters.python]
cmd = "black"
args = ["-q", "-"]

[rules.MDF001]
enabled = false
`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, tc.file), tc.content)

			result, err := Load(context.Background(), isolated(dir))
			require.NoError(t, err)
			cfg := result.Config
			assert.Equal(t, config.FlavorQuarto, cfg.Flavor)
			assert.Equal(t, 72, cfg.LineWidth)
			assert.Equal(t, config.FenceTilde, cfg.CodeBlocks.FenceStyle)
			assert.Equal(t, config.DefaultMinFenceLength, cfg.CodeBlocks.MinFenceLength, "untouched defaults survive")
			assert.Equal(t, config.WrapReflow, cfg.Wrap)
			assert.Equal(t, "black", cfg.Formatters["python"].Cmd)
			require.NotNil(t, cfg.Rules["MDF001"].Enabled)
			assert.False(t, *cfg.Rules["MDF001"].Enabled)
			assert.True(t, cfg.Ext.QuartoShortcodes, "extensions follow the loaded flavor")
			assert.Equal(t, []string{filepath.Join(dir, tc.file)}, result.LoadedFrom)
		})
	}
}

func TestLoad_UpwardSearchStopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".mdfmt.yml"), "line_width: 50\n")
	repo := filepath.Join(root, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
	sub := filepath.Join(repo, "docs", "deep")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	result, err := Load(context.Background(), isolated(sub))
	require.NoError(t, err)
	assert.Empty(t, result.Paths.Project, "search must stop at the repository root")

	writeFile(t, filepath.Join(repo, ".mdfmt.yml"), "line_width: 60\n")
	result, err = Load(context.Background(), isolated(sub))
	require.NoError(t, err)
	assert.Equal(t, 60, result.Config.LineWidth)
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".mdfmt.yml"), "line_width: 60\nwrap: preserve\nverify: true\n")
	explicit := filepath.Join(dir, "other.toml")
	writeFile(t, explicit, "line_width = 70\nverify = false\n")

	opts := isolated(dir)
	opts.ExplicitPath = explicit
	opts.LookupEnv = func(name string) (string, bool) {
		switch name {
		case "MDFMT_LINE_WIDTH":
			return "90", true
		case "MDFMT_IGNORE":
			return "vendor/**, build/**", true
		}
		return "", false
	}
	opts.Overrides = func(cfg *config.Config) { cfg.Jobs = 3 }

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	cfg := result.Config
	assert.Equal(t, 90, cfg.LineWidth, "environment beats files")
	assert.Equal(t, config.WrapPreserve, cfg.Wrap, "project value kept when not overridden")
	assert.False(t, cfg.Verify, "explicit false in a later file wins")
	assert.Equal(t, []string{"vendor/**", "build/**"}, cfg.Ignore)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Len(t, result.LoadedFrom, 2)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{name: "bad yaml", content: "line_width: [\n"},
		{name: "bad flavor", content: "flavor: markdown-plus\n"},
		{name: "negative width", content: "line_width: -1\n"},
		{name: "bad glob", content: "ignore: ['[oops']\n"},
		{name: "bad rule severity", content: "rules:\n  MDF001:\n    severity: loud\n"},
		{name: "formatter without cmd", content: "formatters:\n  python:\n    args: [x]\n"},
		{name: "bad env int", env: map[string]string{"MDFMT_JOBS": "many"}},
		{name: "bad env bool", env: map[string]string{"MDFMT_VERIFY": "maybe"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			if tc.content != "" {
				writeFile(t, filepath.Join(dir, ".mdfmt.yml"), tc.content)
			}
			opts := isolated(dir)
			opts.LookupEnv = func(name string) (string, bool) {
				v, ok := tc.env[name]
				return v, ok
			}
			_, err := Load(context.Background(), opts)
			require.Error(t, err)
		})
	}
}

func TestLoad_Warnings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".mdfmt.yml"), "extensions:\n  no_such_ext: true\nrules:\n  MDF999: {}\n")

	result, err := Load(context.Background(), isolated(dir))
	require.NoError(t, err)
	assert.Len(t, result.Warnings, 2)
}

func TestMergeRules(t *testing.T) {
	t.Parallel()

	on, off := true, false
	sev := "error"
	base := map[string]config.RuleConfig{
		"MDF001": {Enabled: &on, Options: map[string]any{"a": 1}},
		"MDF002": {Enabled: &on},
	}
	override := map[string]config.RuleConfig{
		"MDF001": {Severity: &sev, Options: map[string]any{"b": 2}},
		"MDF003": {Enabled: &off},
	}

	got := mergeRules(base, override)
	assert.Len(t, got, 3)
	assert.True(t, *got["MDF001"].Enabled)
	assert.Equal(t, "error", *got["MDF001"].Severity)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, got["MDF001"].Options)
	assert.False(t, *got["MDF003"].Enabled)
	assert.Equal(t, map[string]any{"a": 1}, base["MDF001"].Options, "base must not change")
}

func TestMergeFormatters(t *testing.T) {
	t.Parallel()

	off := false
	base := map[string]config.FormatterConfig{"python": {Cmd: "black", Args: []string{"-"}}}
	got := mergeFormatters(base, map[string]config.FormatterConfig{
		"python": {Enabled: &off},
		"r":      {Cmd: "styler"},
	})
	assert.Equal(t, "black", got["python"].Cmd)
	assert.False(t, got["python"].IsEnabled())
	assert.Equal(t, "styler", got["r"].Cmd)
}

func TestWriteConfigRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfigForFlavor(config.FlavorQuarto)
	cfg.LineWidth = 66

	for _, name := range []string{"out.yml", "out.toml"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, WriteConfig(cfg, path))

		loaded := config.NewConfig()
		require.NoError(t, LoadFile(loaded, path))
		assert.Equal(t, config.FlavorQuarto, loaded.Flavor, name)
		assert.Equal(t, 66, loaded.LineWidth, name)
	}
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	assert.Contains(t, vars, "MDFMT_LINE_WIDTH")
	assert.Contains(t, vars, "MDFMT_FLAVOR")
	for name, desc := range vars {
		assert.NotEmpty(t, desc, name)
	}
}
