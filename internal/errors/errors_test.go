package errors

import (
	"fmt"
	"io/fs"
	"testing"
)

func TestExitError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(ErrNotFound, ExitUser),
			want: "resource not found",
		},
		{
			name: "with wrapped error",
			err:  NewExitError(fmt.Errorf("loading config: %w", ErrInvalidConfig), ExitUser),
			want: "loading config: invalid configuration",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitUser),
			want: "exit code 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ExitError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	tests := []struct {
		name       string
		err        *ExitError
		wantTarget error
		wantIs     bool
	}{
		{
			name:       "unwrap to sentinel error",
			err:        NewExitError(ErrNotFound, ExitUser),
			wantTarget: ErrNotFound,
			wantIs:     true,
		},
		{
			name:       "unwrap through typed error",
			err:        NewSystemError(&MissingEnvError{Client: "claude", Keys: []string{"API_KEY"}}, ""),
			wantTarget: ErrMissingEnv,
			wantIs:     true,
		},
		{
			name:       "no match for different sentinel",
			err:        NewExitError(ErrNotFound, ExitUser),
			wantTarget: ErrInvalidConfig,
			wantIs:     false,
		},
		{
			name:       "nil underlying error",
			err:        NewExitError(nil, ExitUser),
			wantTarget: ErrNotFound,
			wantIs:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.wantTarget); got != tt.wantIs {
				t.Errorf("errors.Is() = %v, want %v", got, tt.wantIs)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", New("boom"), ExitUser},
		{"system error", NewSystemError(New("disk"), ""), ExitSystem},
		{"wrapped system error", Wrap(NewSystemError(New("disk"), ""), "outer"), ExitSystem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTaxonomy_Sentinels(t *testing.T) {
	cause := fs.ErrPermission
	tests := []struct {
		name     string
		err      error
		sentinel error
		wantMsg  string
	}{
		{
			name:     "config parse",
			err:      &ConfigParseError{Path: "/tmp/c.toml", Err: New("bad key")},
			sentinel: ErrConfigParse,
			wantMsg:  "parsing /tmp/c.toml: bad key",
		},
		{
			name:     "config write",
			err:      &ConfigWriteError{Path: "/tmp/c.toml", Err: cause},
			sentinel: ErrConfigWrite,
			wantMsg:  "writing /tmp/c.toml: permission denied",
		},
		{
			name:     "invalid spec",
			err:      &InvalidSpecError{Field: "name", Reason: "is required"},
			sentinel: ErrInvalidSpec,
			wantMsg:  "invalid server spec: name is required",
		},
		{
			name:     "empty command",
			err:      &EmptyCommandError{Command: "  "},
			sentinel: ErrEmptyCommand,
			wantMsg:  `command "  " must contain an executable`,
		},
		{
			name:     "missing env",
			err:      &MissingEnvError{Client: "claude", Keys: []string{"A", "B"}},
			sentinel: ErrMissingEnv,
			wantMsg:  "missing required env for claude: A, B (export them and retry)",
		},
		{
			name:     "unsupported client",
			err:      &UnsupportedClientError{Client: "vim"},
			sentinel: ErrUnsupportedClient,
			wantMsg:  `unsupported client "vim"`,
		},
		{
			name:     "external tool",
			err:      &ExternalToolError{Tool: "claude", Args: []string{"mcp", "remove", "x"}, ExitCode: 1, Stderr: "no such server\n"},
			sentinel: ErrExternalTool,
			wantMsg:  "claude mcp remove x exited with status 1: no such server",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%T, sentinel) = false, want true", tt.err)
			}
			wrapped := Wrap(tt.err, "integrating demo")
			if !Is(wrapped, tt.sentinel) {
				t.Errorf("errors.Is(wrapped %T, sentinel) = false, want true", tt.err)
			}
		})
	}
}

func TestConfigWriteError_UnwrapsCause(t *testing.T) {
	err := Wrap(&ConfigWriteError{Path: "/x", Err: fs.ErrPermission}, "saving")
	if !Is(err, fs.ErrPermission) {
		t.Error("expected underlying fs.ErrPermission to be reachable")
	}

	var writeErr *ConfigWriteError
	if !As(err, &writeErr) {
		t.Fatal("errors.As() did not find *ConfigWriteError")
	}
	if writeErr.Path != "/x" {
		t.Errorf("Path = %q, want /x", writeErr.Path)
	}
}

func TestJoin(t *testing.T) {
	if err := Join(nil, nil); err != nil {
		t.Errorf("Join(nil, nil) = %v, want nil", err)
	}

	err := Join(
		Wrap(&MissingEnvError{Client: "claude", Keys: []string{"A"}}, "claude/demo"),
		nil,
		Wrap(fs.ErrPermission, "codex/demo"),
	)
	if !Is(err, ErrMissingEnv) || !Is(err, fs.ErrPermission) {
		t.Errorf("joined error lost a member: %v", err)
	}
	var envErr *MissingEnvError
	if !As(err, &envErr) {
		t.Fatal("errors.As() did not find *MissingEnvError")
	}
	want := "claude/demo: " + envErr.Error() + "\ncodex/demo: permission denied"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
