// Package editor launches the user's preferred text editor.
package editor

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/shellcmd"
)

// Editor runs an editor command on a file.
type Editor struct {
	// Lookup reads environment variables. Nil means os.LookupEnv.
	Lookup func(string) (string, bool)

	// LookPath resolves executables. Nil means exec.LookPath.
	LookPath func(string) (string, error)

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns an Editor attached to the process's standard streams.
func New() *Editor {
	return &Editor{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Command returns the editor command line: $EDITOR, then $VISUAL, then
// nano when installed, then vi.
func (e *Editor) Command() string {
	lookup := e.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, key := range []string{"EDITOR", "VISUAL"} {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
	}

	lookPath := e.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if _, err := lookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}

// Open edits path and waits for the editor to exit. The editor command may
// carry arguments, as in EDITOR="code --wait".
func (e *Editor) Open(ctx context.Context, path string) error {
	line := e.Command()
	argv, err := shellcmd.Split(line)
	if err != nil {
		return errors.Wrapf(err, "parsing editor command %q", line)
	}
	if len(argv) == 0 {
		return errors.Newf("editor command %q is empty", line)
	}

	c := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	c.Stdin = e.Stdin
	c.Stdout = e.Stdout
	c.Stderr = e.Stderr

	if err := c.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", argv[0])
	}
	return nil
}
