package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdfmt/pkg/reporter"
)

const noCacheConfig = "cache:\n  enabled: false\n"

// execute runs mdfmt in dir with stdin as standard input. It changes the
// working directory, so callers cannot run in parallel.
func execute(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := NewRootCommand(BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-02"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--color", "never"))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// workspace writes files into a new directory with caching disabled.
func workspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files[".mdfmt.yml"] = noCacheConfig + files[".mdfmt.yml"]
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"issues", ErrIssuesFound, ExitIssues},
		{"wrapped issues", fmt.Errorf("run: %w", ErrIssuesFound), ExitIssues},
		{"warnings", ErrWarningsFound, ExitWarnings},
		{"usage", usageErrorf("bad flag"), ExitInvalidUsage},
		{"config", configError(errors.New("bad yaml")), ExitConfigError},
		{"io", ioError(errors.New("disk")), ExitIOError},
		{"wrapped io", fmt.Errorf("outer: %w", ioError(errors.New("disk"))), ExitIOError},
		{"other", errors.New("boom"), ExitInternalError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ExitCode(tc.err))
		})
	}

	assert.True(t, IsSilent(ErrIssuesFound))
	assert.False(t, IsSilent(ioError(errors.New("disk"))))
}

func TestUseStdin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    bool
		wantErr bool
	}{
		{"no args and no pipe", nil, false, false},
		{"dash", []string{"-"}, true, false},
		{"paths", []string{"a.md", "docs"}, false, false},
		{"dash mixed with paths", []string{"-", "a.md"}, false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := useStdin(tc.args, strings.NewReader("text"))
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, ExitInvalidUsage, ExitCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	t.Parallel()

	cmd := NewRootCommand(BuildInfo{})
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"format", "parse", "lint", "rules", "config", "init", "lsp", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestFormatCheck(t *testing.T) {
	dir := workspace(t, map[string]string{
		"a.md": "# A\n\ntext\n",
		"b.md": "Title\n=====\n",
	})

	out, err := execute(t, dir, "", "format", "--check")
	require.ErrorIs(t, err, ErrIssuesFound)
	assert.Contains(t, out, "would reformat b.md")
	assert.NotContains(t, out, "a.md")
	assert.Equal(t, "Title\n=====\n", readFile(t, dir, "b.md"), "--check must not write")
}

func TestFormatWrites(t *testing.T) {
	dir := workspace(t, map[string]string{
		"a.md":        "# A\n\ntext\n",
		"docs/b.qmd":  "* one\n* two\n",
		"vendor/c.md": "Title\n=====\n",
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".mdfmt.yml"),
		[]byte(noCacheConfig+"ignore:\n  - vendor/**\n"), 0o644))

	out, err := execute(t, dir, "", "format")
	require.NoError(t, err)
	assert.Contains(t, out, "reformatted docs/b.qmd")

	assert.Equal(t, "- one\n- two\n", readFile(t, dir, "docs/b.qmd"))
	assert.Equal(t, "# A\n\ntext\n", readFile(t, dir, "a.md"))
	assert.Equal(t, "Title\n=====\n", readFile(t, dir, "vendor/c.md"), "ignored files stay untouched")

	_, err = execute(t, dir, "", "format", "--check")
	assert.NoError(t, err, "formatted tree passes --check")
}

func TestFormatDiff(t *testing.T) {
	dir := workspace(t, map[string]string{"b.md": "Title\n=====\n"})

	out, err := execute(t, dir, "", "format", "--diff")
	require.NoError(t, err)
	assert.Contains(t, out, "--- a/b.md")
	assert.Contains(t, out, "-Title")
	assert.Contains(t, out, "+# Title")
	assert.Equal(t, "Title\n=====\n", readFile(t, dir, "b.md"))
}

func TestFormatJSON(t *testing.T) {
	dir := workspace(t, map[string]string{"b.md": "Title\n=====\n"})

	out, err := execute(t, dir, "", "format", "--check", "--output", "json")
	require.ErrorIs(t, err, ErrIssuesFound)

	var got reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Files, 1)
	assert.Equal(t, "b.md", got.Files[0].Path)
	assert.True(t, got.Files[0].Changed)
	assert.Equal(t, 1, got.Summary.FilesChanged)
}

func TestFormatCommandLineOverrides(t *testing.T) {
	text := strings.Repeat("word ", 30)
	dir := workspace(t, map[string]string{"a.md": text + "\n"})

	_, err := execute(t, dir, "", "format", "--line-width", "20")
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimSuffix(readFile(t, dir, "a.md"), "\n"), "\n") {
		assert.LessOrEqual(t, len(line), 20, "line %q", line)
	}
}

func TestFormatStdin(t *testing.T) {
	dir := workspace(t, map[string]string{})

	tests := []struct {
		name    string
		args    []string
		stdin   string
		want    string
		wantErr error
	}{
		{"formats", []string{"format", "-"}, "* a\n* b\n", "- a\n- b\n", nil},
		{"check clean", []string{"format", "--check", "-"}, "- a\n", "", nil},
		{"check dirty", []string{"format", "--check", "-"}, "* a\n", "", ErrIssuesFound},
		{"verify", []string{"format", "--verify", "-"}, "Title\n=====\n", "# Title\n", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, dir, tc.stdin, tc.args...)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.want, out)
		})
	}

	out, err := execute(t, dir, "* a\n", "format", "--diff", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "+- a")
}

func TestFormatUsageErrors(t *testing.T) {
	dir := workspace(t, map[string]string{"a.md": "a\n"})

	tests := []struct {
		name string
		args []string
	}{
		{"check with diff", []string{"format", "--check", "--diff"}},
		{"stdin mixed with paths", []string{"format", "-", "a.md"}},
		{"watch stdin", []string{"format", "--watch", "-"}},
		{"unknown flag", []string{"format", "--no-such-flag"}},
		{"bad output", []string{"format", "--output", "sarif"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, dir, "", tc.args...)
			require.Error(t, err)
			assert.Equal(t, ExitInvalidUsage, ExitCode(err))
		})
	}
}

func TestInvalidConfig(t *testing.T) {
	dir := workspace(t, map[string]string{".mdfmt.yml": "line_width: [\n"})

	_, err := execute(t, dir, "", "format", "--check")
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, ExitCode(err))
}

func TestParse(t *testing.T) {
	dir := workspace(t, map[string]string{"a.md": "# H\n"})

	out, err := execute(t, dir, "", "parse", "a.md")
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	assert.Equal(t, "DOCUMENT@0..4", lines[0])
	assert.Contains(t, out, "HEADING@0..4")
	assert.Contains(t, out, `ATX_HEADING_MARKER@0..1 "#"`)

	fromStdin, err := execute(t, dir, "# H\n", "parse", "-")
	require.NoError(t, err)
	assert.Equal(t, out, fromStdin)

	_, err = execute(t, dir, "", "parse", "missing.md")
	require.Error(t, err)
	assert.Equal(t, ExitIOError, ExitCode(err))
}

func TestLint(t *testing.T) {
	dir := workspace(t, map[string]string{
		"a.md": "# A\n\n### C\n",
		"b.md": "# B\n\n## C\n",
	})

	out, err := execute(t, dir, "", "lint")
	require.NoError(t, err, "warnings alone do not fail")
	assert.Contains(t, out, "MDF001")
	assert.Contains(t, out, "a.md")

	_, err = execute(t, dir, "", "lint", "--strict")
	require.ErrorIs(t, err, ErrWarningsFound)
	assert.Equal(t, ExitWarnings, ExitCode(err))

	out, err = execute(t, dir, "", "lint", "--output", "json")
	require.NoError(t, err)
	var got reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	var ids []string
	for _, f := range got.Files {
		for _, d := range f.Diagnostics {
			ids = append(ids, f.Path+":"+d.RuleID)
		}
	}
	assert.Empty(t, cmp.Diff([]string{"a.md:MDF001"}, ids))
}

func TestLintErrors(t *testing.T) {
	dir := workspace(t, map[string]string{"a.md": "---\n- not\n- a map\n---\n\ntext\n"})

	_, err := execute(t, dir, "", "lint")
	require.ErrorIs(t, err, ErrIssuesFound)
}

func TestLintFix(t *testing.T) {
	dir := workspace(t, map[string]string{"a.md": "# A\n\n### C\n"})

	out, err := execute(t, dir, "", "lint", "--fix", "--diff")
	require.NoError(t, err)
	assert.Contains(t, out, "+## C")
	assert.Equal(t, "# A\n\n### C\n", readFile(t, dir, "a.md"), "--diff must not write")

	_, err = execute(t, dir, "", "lint", "--fix")
	require.NoError(t, err)
	assert.Equal(t, "# A\n\n## C\n", readFile(t, dir, "a.md"))

	_, err = execute(t, dir, "", "lint", "--fix", "-")
	assert.Equal(t, ExitInvalidUsage, ExitCode(err))
}

func TestLintStdin(t *testing.T) {
	dir := workspace(t, map[string]string{})

	out, err := execute(t, dir, "# A\n\n### C\n", "lint", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "<stdin>")
	assert.Contains(t, out, "MDF001")
}

func TestRulesJSON(t *testing.T) {
	dir := workspace(t, map[string]string{})

	out, err := execute(t, dir, "", "rules", "--output", "json")
	require.NoError(t, err)

	var got []ruleInfo
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	ids := make([]string, 0, len(got))
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	assert.Empty(t, cmp.Diff([]string{"MDF001", "MDF002", "MDF003"}, ids))

	_, err = execute(t, dir, "", "rules", "--output", "yaml")
	assert.Equal(t, ExitInvalidUsage, ExitCode(err))
}

func TestConfigCommand(t *testing.T) {
	dir := workspace(t, map[string]string{".mdfmt.yml": "line_width: 60\nflavor: quarto\n"})

	out, err := execute(t, dir, "", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "line_width: 60")
	assert.Contains(t, out, "flavor: quarto")

	out, err = execute(t, dir, "", "config", "--toml")
	require.NoError(t, err)
	assert.Contains(t, out, "line_width = 60")
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, "", "init", "--flavor", "quarto")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, dir, ".mdfmt.yml"), "flavor: quarto")

	_, err = execute(t, dir, "", "init")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidUsage, ExitCode(err))

	_, err = execute(t, dir, "", "init", "--force")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, dir, ".mdfmt.yml"), "flavor: pandoc")

	_, err = execute(t, dir, "", "init", "--toml")
	require.NoError(t, err)
	toml := readFile(t, dir, ".mdfmt.toml")
	assert.Contains(t, toml, "flavor = ")
	assert.Contains(t, toml, "pandoc")

	_, err = execute(t, dir, "", "init", "--flavor", "asciidoc", "-o", "x.yml")
	assert.Equal(t, ExitInvalidUsage, ExitCode(err))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, t.TempDir(), "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "abc123")
}

func TestHelp(t *testing.T) {
	out, err := execute(t, t.TempDir(), "", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "Commands:")
	assert.Contains(t, out, "format")
	assert.Contains(t, out, "--config")

	out, err = execute(t, t.TempDir(), "", "format", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "--check")
	assert.Contains(t, out, "Global Flags:")
}

func TestStyleFlags(t *testing.T) {
	t.Parallel()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Bool("check", false, "report files that would change")
	fs.IntP("width", "w", 80, "line width")

	got := styleFlags(newHelpStyles(false), fs)
	assert.Contains(t, got, "--check")
	assert.Contains(t, got, "report files that would change")
	assert.Contains(t, got, "-w, --width")
	assert.Contains(t, got, "line width")
	assert.Len(t, strings.Split(got, "\n"), 2)
}
