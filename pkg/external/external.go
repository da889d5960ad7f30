// Package external pipes code block content through external formatters
// such as black, gofmt or air.
//
// A formatter is a command configured per language. It either reads code on
// stdin and writes the result to stdout, or formats a temporary file in
// place. Every failure (missing binary, non-zero exit, timeout) is reported
// as an error; callers keep the original code when one is returned.
package external

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/mdfmt/internal/logging"
	"github.com/yaklabco/mdfmt/pkg/config"
	"github.com/yaklabco/mdfmt/pkg/langdetect"
)

// DefaultTimeout bounds one formatter invocation when the config sets none.
const DefaultTimeout = 30 * time.Second

// DefaultLimit is the number of formatter processes run at once.
const DefaultLimit = 4

// waitDelay bounds how long a finished or killed formatter may keep its
// output pipes open through processes it left behind.
const waitDelay = time.Second

// placeholder is replaced by the temp file path in file mode arguments.
const placeholder = "{}"

var (
	// ErrNoFormatter is returned for a language with no enabled formatter.
	ErrNoFormatter = errors.New("no formatter configured")

	// ErrTimeout is returned when a formatter exceeds its deadline.
	ErrTimeout = errors.New("formatter timed out")
)

// ExitError reports a formatter that exited with a non-zero status.
type ExitError struct {
	Cmd    string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Cmd, e.Code)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// Runner formats code written in a language.
type Runner interface {
	// Has reports whether a formatter is configured for lang.
	Has(lang string) bool

	// Format returns the formatted code.
	Format(ctx context.Context, lang, code string) (string, error)
}

// Formatters runs the commands configured in config.Formatters.
type Formatters struct {
	byLang map[string]config.FormatterConfig
}

// New indexes formatters by canonical language tag. Disabled entries are
// dropped.
func New(formatters map[string]config.FormatterConfig) *Formatters {
	f := &Formatters{byLang: make(map[string]config.FormatterConfig, len(formatters))}
	for lang, fc := range formatters {
		if fc.IsEnabled() {
			f.byLang[langdetect.Canonical(lang)] = fc
		}
	}
	return f
}

// Has reports whether a formatter is configured for lang.
func (f *Formatters) Has(lang string) bool {
	_, ok := f.lookup(lang)
	return ok
}

func (f *Formatters) lookup(lang string) (config.FormatterConfig, bool) {
	if f == nil || lang == "" {
		return config.FormatterConfig{}, false
	}
	fc, ok := f.byLang[langdetect.Canonical(lang)]
	return fc, ok
}

// Format runs the formatter configured for lang over code.
func (f *Formatters) Format(ctx context.Context, lang, code string) (string, error) {
	fc, ok := f.lookup(lang)
	if !ok {
		return "", fmt.Errorf("%w for %q", ErrNoFormatter, lang)
	}

	timeout := DefaultTimeout
	if fc.TimeoutSeconds > 0 {
		timeout = time.Duration(fc.TimeoutSeconds) * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger := logging.FromContext(ctx)
	logger.Debug("Running external formatter",
		logging.FieldLanguage, lang,
		logging.FieldCommand, fc.Cmd,
	)

	start := time.Now()
	var (
		out string
		err error
	)
	if fc.UsesStdin() {
		out, err = runStdin(ctx, fc, code)
	} else {
		out, err = runFile(ctx, fc, code)
	}
	if err != nil {
		return "", err
	}

	logger.Debug("External formatter finished",
		logging.FieldCommand, fc.Cmd,
		logging.FieldDuration, time.Since(start),
	)
	return out, nil
}

func runStdin(ctx context.Context, fc config.FormatterConfig, code string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := command(ctx, fc.Cmd, fc.Args...)
	cmd.Stdin = strings.NewReader(code)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := run(ctx, cmd, &stderr); err != nil {
		return "", err
	}
	return stdout.String(), nil
}

func runFile(ctx context.Context, fc config.FormatterConfig, code string) (string, error) {
	tmp, err := os.CreateTemp("", "mdfmt-block-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.WriteString(code); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	var stderr bytes.Buffer
	cmd := command(ctx, fc.Cmd, fileArgs(fc.Args, path)...)
	cmd.Stderr = &stderr
	if err := run(ctx, cmd, &stderr); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading formatted file: %w", err)
	}
	return string(data), nil
}

// fileArgs substitutes path for every placeholder, or appends it when the
// arguments have none.
func fileArgs(args []string, path string) []string {
	out := make([]string, 0, len(args)+1)
	replaced := false
	for _, arg := range args {
		if strings.Contains(arg, placeholder) {
			arg = strings.ReplaceAll(arg, placeholder, path)
			replaced = true
		}
		out = append(out, arg)
	}
	if !replaced {
		out = append(out, path)
	}
	return out
}

// command prepares a formatter process that is killed, together with
// everything it started, when ctx is done.
func command(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay
	ownGroup(cmd)
	return cmd
}

func run(ctx context.Context, cmd *exec.Cmd, stderr *bytes.Buffer) error {
	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil || errors.Is(err, exec.ErrWaitDelay) {
		// Leftover children may still hold the group.
		_ = killGroup(cmd)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", cmd.Path, ErrTimeout)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Cmd: cmd.Path, Code: exitErr.ExitCode(), Stderr: stderr.String()}
	}
	return fmt.Errorf("running %s: %w", cmd.Path, err)
}

// Request is one code block to format.
type Request struct {
	Language string
	Code     string
}

// Result is the outcome of one Request. Err is set when the block must be
// left as it was.
type Result struct {
	Code string
	Err  error
}

// FormatAll formats every request concurrently, at most limit at a time.
// A failing request never affects the others; results line up with reqs.
func FormatAll(ctx context.Context, runner Runner, reqs []Request, limit int) []Result {
	results := make([]Result, len(reqs))
	if len(reqs) == 0 {
		return results
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, req := range reqs {
		g.Go(func() error {
			code, err := runner.Format(ctx, req.Language, req.Code)
			results[i] = Result{Code: code, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Func adapts a function to the Runner interface. Every language is
// reported as configured.
type Func func(ctx context.Context, lang, code string) (string, error)

// Has implements Runner.
func (f Func) Has(string) bool { return true }

// Format implements Runner.
func (f Func) Format(ctx context.Context, lang, code string) (string, error) {
	return f(ctx, lang, code)
}
