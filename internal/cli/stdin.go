package cli

import (
	"io"
	"os"

	"golang.org/x/term"
)

// stdinPath is the argument naming standard input.
const stdinPath = "-"

// stdinPiped reports whether r is a pipe or a redirected file, so that a
// command given no paths reads it instead of walking the directory.
func stdinPiped(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	if term.IsTerminal(int(f.Fd())) {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeNamedPipe != 0 || info.Mode().IsRegular()
}

// useStdin decides whether args select standard input.
func useStdin(args []string, in io.Reader) (bool, error) {
	for _, a := range args {
		if a == stdinPath && len(args) > 1 {
			return false, usageErrorf("%q cannot be combined with other paths", stdinPath)
		}
	}
	if len(args) == 1 && args[0] == stdinPath {
		return true, nil
	}
	return len(args) == 0 && stdinPiped(in), nil
}
