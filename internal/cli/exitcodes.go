package cli

import (
	"errors"
	"fmt"
)

// Exit codes for mdfmt.
const (
	// ExitSuccess indicates nothing to report.
	ExitSuccess = 0

	// ExitIssues indicates unformatted files under --check, failed files,
	// or lint errors.
	ExitIssues = 1

	// ExitWarnings indicates lint warnings under --strict.
	ExitWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates an unreadable or invalid configuration.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrIssuesFound signals ExitIssues. It carries no message worth logging.
	ErrIssuesFound = errors.New("issues found")

	// ErrWarningsFound signals ExitWarnings.
	ErrWarningsFound = errors.New("warnings found")
)

// exitError attaches an exit code to an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error  { return &exitError{ExitInvalidUsage, err} }
func configError(err error) error { return &exitError{ExitConfigError, err} }
func ioError(err error) error     { return &exitError{ExitIOError, err} }

func usageErrorf(format string, args ...any) error {
	return usageError(fmt.Errorf(format, args...))
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var ee *exitError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrIssuesFound):
		return ExitIssues
	case errors.Is(err, ErrWarningsFound):
		return ExitWarnings
	case errors.As(err, &ee):
		return ee.code
	default:
		return ExitInternalError
	}
}

// IsSilent reports whether err only signals an exit code and should not be
// logged.
func IsSilent(err error) bool {
	return errors.Is(err, ErrIssuesFound) || errors.Is(err, ErrWarningsFound)
}
