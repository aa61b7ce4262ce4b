package client

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/thoreinstein/mcpsync/internal/paths"
)

// InstallStatus indicates the installation state of a client.
type InstallStatus string

const (
	// StatusInstalled indicates the client's config directory exists, or
	// for claude that the binary is on PATH.
	StatusInstalled InstallStatus = "installed"

	// StatusNotInstalled indicates no trace of the client was found.
	StatusNotInstalled InstallStatus = "not_installed"
)

// DetectionResult contains information about a detected client.
type DetectionResult struct {
	// Name is the client identifier.
	Name string

	// Location is the config file for file-backed clients or the resolved
	// binary for claude. It is set even when the client is not installed.
	Location string

	// Status indicates the installation state of the client.
	Status InstallStatus
}

// Detector checks for installed clients.
type Detector struct {
	// Home is the user's home directory.
	Home string

	// Lookup reads environment variables. Nil means os.LookupEnv.
	Lookup func(string) (string, bool)

	// LookPath resolves executables. Nil means exec.LookPath.
	LookPath func(string) (string, error)

	// ClaudeBinary is the claude executable name. Empty means "claude".
	ClaudeBinary string
}

// Detect checks if a specific client is installed.
// Returns nil if the client name is invalid.
func (d *Detector) Detect(name string) *DetectionResult {
	if !paths.ValidClient(name) {
		return nil
	}

	result := &DetectionResult{Name: name, Status: StatusNotInstalled}
	switch name {
	case paths.ClientClaude:
		binary := d.ClaudeBinary
		if binary == "" {
			binary = "claude"
		}
		result.Location = binary
		if p, err := d.lookPath()(binary); err == nil {
			result.Location = p
			result.Status = StatusInstalled
		}
	case paths.ClientCodex:
		result.Location = paths.CodexConfigPath(d.Home)
		if dirExists(filepath.Dir(result.Location)) {
			result.Status = StatusInstalled
		}
	case paths.ClientGoose:
		result.Location = paths.GooseConfigPath(d.Home, d.lookup())
		if dirExists(filepath.Dir(result.Location)) {
			result.Status = StatusInstalled
		}
	}
	return result
}

// DetectAll returns detection results for all known clients in the order
// defined by paths.Clients().
func (d *Detector) DetectAll() []*DetectionResult {
	clients := paths.Clients()
	results := make([]*DetectionResult, 0, len(clients))
	for _, name := range clients {
		if result := d.Detect(name); result != nil {
			results = append(results, result)
		}
	}
	return results
}

func (d *Detector) lookPath() func(string) (string, error) {
	if d.LookPath != nil {
		return d.LookPath
	}
	return exec.LookPath
}

func (d *Detector) lookup() func(string) (string, bool) {
	if d.Lookup != nil {
		return d.Lookup
	}
	return os.LookupEnv
}

// dirExists returns true if the path exists and is a directory.
func dirExists(path string) bool {
	if path == "" || path == "." {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.IsDir()
}
