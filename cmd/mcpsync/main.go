// Package main is the entry point for the mcpsync CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/thoreinstein/mcpsync/cmd/mcpsync/commands"
	"github.com/thoreinstein/mcpsync/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Execute(ctx)
	stop()

	if err != nil {
		report(err)
		os.Exit(errors.ExitCode(err))
	}
}

// report prints err and any suggestion attached to it. An ExitError
// without an underlying error only sets the exit code.
func report(err error) {
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err == nil {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr.Err)
		if exitErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "%s\n", exitErr.Suggestion)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
