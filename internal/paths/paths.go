package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/thoreinstein/mcpsync/internal/errors"
)

// AppName is the directory name used under the XDG config home.
const AppName = "mcpsync"

// Client identifiers for supported AI assistants.
const (
	ClientCodex  = "codex"
	ClientClaude = "claude"
	ClientGoose  = "goose"
)

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory, or an empty string when it cannot
// be determined. Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", errors.Wrap(ErrHomeDirNotFound, "resolving home")
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
func ConfigHome() string {
	return xdg.ConfigHome
}

// AppConfigDir returns <ConfigHome>/mcpsync.
func AppConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// AppConfigFile returns the default mcpsync config file path.
func AppConfigFile() string {
	return filepath.Join(AppConfigDir(), "config.yaml")
}

// CuratedDir returns the default curated registry directory.
func CuratedDir() string {
	return filepath.Join(AppConfigDir(), "curated")
}

// Clients returns every supported client identifier in canonical order.
func Clients() []string {
	return []string{ClientCodex, ClientClaude, ClientGoose}
}

// ValidClient returns true if the client name is recognized.
func ValidClient(name string) bool {
	switch name {
	case ClientCodex, ClientClaude, ClientGoose:
		return true
	}
	return false
}

// CodexConfigPath returns the Codex config file under home: config.toml when
// it exists, otherwise mcp.toml.
func CodexConfigPath(home string) string {
	if home == "" {
		return ""
	}
	dir := filepath.Join(home, ".codex")
	primary := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(primary); err == nil {
		return primary
	}
	return filepath.Join(dir, "mcp.toml")
}

// GooseConfigPath returns $XDG_CONFIG_HOME/goose/config.yaml, falling back
// to <home>/.config/goose/config.yaml. lookup reads environment variables.
func GooseConfigPath(home string, lookup func(string) (string, bool)) string {
	root := ""
	if lookup != nil {
		if v, ok := lookup("XDG_CONFIG_HOME"); ok {
			root = strings.TrimSpace(v)
		}
	}
	if root == "" {
		if home == "" {
			return ""
		}
		root = filepath.Join(home, ".config")
	}
	return filepath.Join(root, "goose", "config.yaml")
}

// ClientConfigPath returns the default config path for a file-backed
// client, or an empty string for claude and unknown names.
func ClientConfigPath(client, home string) string {
	switch client {
	case ClientCodex:
		return CodexConfigPath(home)
	case ClientGoose:
		return GooseConfigPath(home, os.LookupEnv)
	}
	return ""
}

// ExpandHome replaces a leading "~" in path with home.
func ExpandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
