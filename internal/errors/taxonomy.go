package errors

import (
	"fmt"
	"strings"
)

// ConfigParseError reports a malformed on-disk configuration document.
// An absent file is never a ConfigParseError.
type ConfigParseError struct {
	Path string
	Err  error
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ConfigParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrConfigParse.
func (e *ConfigParseError) Is(target error) bool {
	return target == ErrConfigParse
}

// ConfigWriteError reports an I/O failure during an atomic write.
type ConfigWriteError struct {
	Path string
	Err  error
}

func (e *ConfigWriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *ConfigWriteError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrConfigWrite.
func (e *ConfigWriteError) Is(target error) bool {
	return target == ErrConfigWrite
}

// InvalidSpecError reports a server spec that cannot be accepted by an adapter.
type InvalidSpecError struct {
	Field  string
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid server spec: %s %s", e.Field, e.Reason)
}

func (e *InvalidSpecError) Unwrap() error {
	return ErrInvalidSpec
}

// EmptyCommandError reports a command string that yields no executable.
type EmptyCommandError struct {
	Command string
	Err     error
}

func (e *EmptyCommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command %q must contain an executable: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("command %q must contain an executable", e.Command)
}

func (e *EmptyCommandError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrEmptyCommand.
func (e *EmptyCommandError) Is(target error) bool {
	return target == ErrEmptyCommand
}

// MissingEnvError reports required environment variables with no value.
type MissingEnvError struct {
	Client string
	Keys   []string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("missing required env for %s: %s (export them and retry)",
		e.Client, strings.Join(e.Keys, ", "))
}

func (e *MissingEnvError) Unwrap() error {
	return ErrMissingEnv
}

// UnsupportedClientError reports an unknown client name.
type UnsupportedClientError struct {
	Client string
}

func (e *UnsupportedClientError) Error() string {
	return fmt.Sprintf("unsupported client %q", e.Client)
}

func (e *UnsupportedClientError) Unwrap() error {
	return ErrUnsupportedClient
}

// ExternalToolError reports a non-zero exit from a delegated command-line tool.
type ExternalToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *ExternalToolError) Error() string {
	msg := fmt.Sprintf("%s %s exited with status %d", e.Tool, strings.Join(e.Args, " "), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ExternalToolError) Unwrap() error {
	return ErrExternalTool
}
