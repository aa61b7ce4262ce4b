package claude

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/thoreinstein/mcpsync/internal/errors"
)

// Result is the captured outcome of a command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner runs an external command to completion. A command that starts and
// exits non-zero is reported through Result.ExitCode with a nil error; the
// error is reserved for commands that could not be run at all.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

type execRunner struct{}

// NewExecRunner returns a Runner backed by os/exec. Commands are killed when
// ctx is cancelled.
func NewExecRunner() Runner {
	return execRunner{}
}

func (execRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, errors.Wrapf(err, "running %s", name)
}
