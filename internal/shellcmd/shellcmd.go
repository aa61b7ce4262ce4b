// Package shellcmd turns a one-line command string into an executable and
// its arguments without invoking a shell.
package shellcmd

import (
	"path/filepath"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/thoreinstein/mcpsync/internal/errors"
)

// Command is a tokenized command line.
type Command struct {
	Executable string
	Args       []string
}

// Argv returns the executable followed by its arguments.
func (c Command) Argv() []string {
	return append([]string{c.Executable}, c.Args...)
}

// String joins the tokens with single spaces.
func (c Command) String() string {
	return strings.Join(c.Argv(), " ")
}

// Split breaks command into tokens, honoring single and double quotes and
// backslash escapes. Environment variables and backticks are left alone.
// Shell operators (| ; & < > and parentheses) are ordinary characters, so
// "http://h/sse?a=1&b=2" stays one token.
func Split(command string) ([]string, error) {
	p := shellwords.NewParser()
	p.ParseEnv = false
	p.ParseBacktick = false
	return p.Parse(escapeOperators(command))
}

// escapeOperators backslash-escapes operator characters outside quotes.
// The parser stops at the first unquoted operator and rejects a bare "(".
func escapeOperators(command string) string {
	var b strings.Builder
	var single, double, escaped bool
	for _, r := range command {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && !single:
			escaped = true
		case r == '\'' && !double:
			single = !single
		case r == '"' && !single:
			double = !double
		case !single && !double && strings.ContainsRune(operators, r):
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

const operators = ";&|<>()"

// Tokenize splits command and expands home references in every token.
// A command with no tokens, or one that cannot be split, yields an
// *errors.EmptyCommandError.
func Tokenize(command, home string) (Command, error) {
	tokens, err := Split(command)
	if err != nil {
		return Command{}, &errors.EmptyCommandError{Command: command, Err: err}
	}
	if len(tokens) == 0 {
		return Command{}, &errors.EmptyCommandError{Command: command}
	}

	expanded := make([]string, len(tokens))
	for i, tok := range tokens {
		expanded[i] = ExpandToken(tok, home)
	}
	if expanded[0] == "" {
		return Command{}, &errors.EmptyCommandError{Command: command}
	}

	return Command{Executable: expanded[0], Args: expanded[1:]}, nil
}

// ExpandToken replaces $HOME and ${HOME} with home and resolves a leading
// "~" or "~/" against home.
func ExpandToken(token, home string) string {
	s := strings.ReplaceAll(token, "${HOME}", home)
	s = strings.ReplaceAll(s, "$HOME", home)
	switch {
	case s == "~":
		return home
	case strings.HasPrefix(s, "~/"):
		return filepath.Join(home, s[2:])
	}
	return s
}
