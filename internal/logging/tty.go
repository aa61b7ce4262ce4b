package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether w is a terminal. Only writers exposing a file
// descriptor, such as *os.File, can be terminals.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether log output to w should carry ANSI colors.
// A non-empty NO_COLOR disables color and CLICOLOR_FORCE enables it on
// pipes; otherwise w must be a terminal whose TERM is not "dumb".
func SupportsColor(w io.Writer) bool {
	return colorEnabled(os.LookupEnv, IsTTY(w))
}

func colorEnabled(lookup func(string) (string, bool), tty bool) bool {
	if v, ok := lookup("NO_COLOR"); ok && v != "" {
		return false
	}
	if v, _ := lookup("CLICOLOR_FORCE"); v != "" && v != "0" {
		return true
	}
	if v, _ := lookup("TERM"); v == "dumb" {
		return false
	}
	return tty
}
