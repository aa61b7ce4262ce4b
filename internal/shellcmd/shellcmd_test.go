package shellcmd

import (
	"reflect"
	"testing"

	"github.com/thoreinstein/mcpsync/internal/errors"
)

func TestTokenize(t *testing.T) {
	const home = "/home/dev"
	tests := []struct {
		name    string
		command string
		want    Command
	}{
		{
			name:    "plain words",
			command: "npx -y @modelcontextprotocol/server-github",
			want:    Command{Executable: "npx", Args: []string{"-y", "@modelcontextprotocol/server-github"}},
		},
		{
			name:    "extra whitespace",
			command: "  uvx   mcp-server-time\t--local-timezone UTC  ",
			want:    Command{Executable: "uvx", Args: []string{"mcp-server-time", "--local-timezone", "UTC"}},
		},
		{
			name:    "double and single quotes",
			command: `node "/opt/my server/index.js" --name 'hello world'`,
			want:    Command{Executable: "node", Args: []string{"/opt/my server/index.js", "--name", "hello world"}},
		},
		{
			name:    "home expansion forms",
			command: "~/bin/srv --root ~ --data $HOME/data --cache ${HOME}/.cache",
			want: Command{
				Executable: "/home/dev/bin/srv",
				Args:       []string{"--root", "/home/dev", "--data", "/home/dev/data", "--cache", "/home/dev/.cache"},
			},
		},
		{
			name:    "other variables untouched",
			command: "srv --token $API_TOKEN",
			want:    Command{Executable: "srv", Args: []string{"--token", "$API_TOKEN"}},
		},
		{
			name:    "tilde not at start is kept",
			command: "srv a~b",
			want:    Command{Executable: "srv", Args: []string{"a~b"}},
		},
		{
			name:    "pipe is an ordinary token",
			command: "srv --flag | tee log",
			want:    Command{Executable: "srv", Args: []string{"--flag", "|", "tee", "log"}},
		},
		{
			name:    "query string ampersand kept in url",
			command: "uvx mcp-proxy --url http://x/sse?a=1&b=2 --verbose",
			want:    Command{Executable: "uvx", Args: []string{"mcp-proxy", "--url", "http://x/sse?a=1&b=2", "--verbose"}},
		},
		{
			name:    "semicolon inside a word",
			command: "sh -c echo;date",
			want:    Command{Executable: "sh", Args: []string{"-c", "echo;date"}},
		},
		{
			name:    "redirect and parentheses",
			command: "srv 2>/dev/null --label (dev) a&&b",
			want:    Command{Executable: "srv", Args: []string{"2>/dev/null", "--label", "(dev)", "a&&b"}},
		},
		{
			name:    "quoted and escaped operators",
			command: `srv "a|b" 'c;d' e\&f`,
			want:    Command{Executable: "srv", Args: []string{"a|b", "c;d", "e&f"}},
		},
		{
			name:    "single word",
			command: "mcp-server",
			want:    Command{Executable: "mcp-server", Args: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.command, home)
			if err != nil {
				t.Fatalf("Tokenize() error: %v", err)
			}
			if got.Executable != tt.want.Executable {
				t.Errorf("Executable = %q, want %q", got.Executable, tt.want.Executable)
			}
			if len(got.Args) != len(tt.want.Args) || (len(got.Args) > 0 && !reflect.DeepEqual(got.Args, tt.want.Args)) {
				t.Errorf("Args = %q, want %q", got.Args, tt.want.Args)
			}
		})
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name      string
		command   string
		wantCause bool
	}{
		{name: "empty", command: ""},
		{name: "whitespace", command: "   \t "},
		{name: "empty quotes", command: `""`},
		{name: "unbalanced double quote", command: `node "unterminated`, wantCause: true},
		{name: "unbalanced single quote", command: `node 'oops`, wantCause: true},
		{name: "trailing backslash", command: `node srv\`, wantCause: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.command, "/home/dev")
			if !errors.Is(err, errors.ErrEmptyCommand) {
				t.Fatalf("Tokenize(%q) error = %v, want ErrEmptyCommand", tt.command, err)
			}
			var emptyErr *errors.EmptyCommandError
			if !errors.As(err, &emptyErr) {
				t.Fatalf("expected *EmptyCommandError, got %T", err)
			}
			if emptyErr.Command != tt.command {
				t.Errorf("Command = %q, want %q", emptyErr.Command, tt.command)
			}
			if (emptyErr.Err != nil) != tt.wantCause {
				t.Errorf("Err = %v, wantCause %v", emptyErr.Err, tt.wantCause)
			}
		})
	}
}

func TestExpandToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"~", "/h"},
		{"~/x/y", "/h/x/y"},
		{"$HOME", "/h"},
		{"${HOME}/z", "/h/z"},
		{"--dir=$HOME/a", "--dir=/h/a"},
		{"~user", "~user"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := ExpandToken(tt.token, "/h"); got != tt.want {
			t.Errorf("ExpandToken(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}

func TestCommand_Argv(t *testing.T) {
	c := Command{Executable: "docker", Args: []string{"run", "img"}}
	if got := c.String(); got != "docker run img" {
		t.Errorf("String() = %q", got)
	}
	argv := c.Argv()
	argv[1] = "changed"
	if c.Args[0] != "run" {
		t.Error("Argv() must not alias Args")
	}
}
