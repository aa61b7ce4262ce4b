package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/store"
)

// ClientFile is a configuration file owned by a client adapter.
type ClientFile struct {
	Client string
	Path   string
}

// PathPermissionCheck verifies that client config files and their
// directories are not readable or writable by other users.
type PathPermissionCheck struct {
	PermissionFixer
	files []ClientFile
}

var (
	_ Check = (*PathPermissionCheck)(nil)
	_ Fixer = (*PathPermissionCheck)(nil)
)

// NewPathPermissionCheck creates a permission check over files.
func NewPathPermissionCheck(files []ClientFile) *PathPermissionCheck {
	return &PathPermissionCheck{files: files}
}

func (c *PathPermissionCheck) Name() string     { return "path-permissions" }
func (c *PathPermissionCheck) Category() string { return "filesystem" }

// Run executes the path and permission diagnostic check.
func (c *PathPermissionCheck) Run(_ context.Context) *CheckResult {
	var issues []pathIssue
	var checked int

	for _, f := range c.files {
		if f.Path == "" {
			continue
		}
		dirIssues := c.checkDirectory(filepath.Dir(f.Path), f.Client)
		issues = append(issues, dirIssues...)
		issues = append(issues, c.checkFile(f.Path, f.Client)...)
		checked += 2
	}

	c.setIssues(issues)
	return c.buildResult(issues, checked)
}

// pathIssue represents a single path or permission problem.
type pathIssue struct {
	Path        string
	Client      string
	Type        string // "file" or "directory"
	Problem     string
	Severity    Severity
	Permissions string
	Fixable     bool
	FixHint     string
}

// checkFile validates a config file. A missing file is not an issue.
func (c *PathPermissionCheck) checkFile(path, clientName string) []pathIssue {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return []pathIssue{{
			Path:     path,
			Client:   clientName,
			Type:     "file",
			Problem:  fmt.Sprintf("cannot stat file: %v", err),
			Severity: SeverityError,
		}}
	}
	if info.IsDir() {
		return []pathIssue{{
			Path:     path,
			Client:   clientName,
			Type:     "file",
			Problem:  "expected file but found directory",
			Severity: SeverityError,
		}}
	}

	f, err := os.Open(path)
	if err != nil {
		return []pathIssue{{
			Path:        path,
			Client:      clientName,
			Type:        "file",
			Problem:     "file is not readable",
			Severity:    SeverityError,
			Permissions: formatPermissions(info.Mode()),
			FixHint:     fmt.Sprintf("chmod %04o %s", secureFilePerm, path),
		}}
	}
	f.Close()

	if runtime.GOOS == "windows" {
		return nil
	}
	return checkPermissions(path, clientName, "file", info.Mode(), secureFilePerm)
}

// checkDirectory validates a config directory. A missing directory is not
// an issue.
func (c *PathPermissionCheck) checkDirectory(path, clientName string) []pathIssue {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return []pathIssue{{
			Path:     path,
			Client:   clientName,
			Type:     "directory",
			Problem:  fmt.Sprintf("cannot stat directory: %v", err),
			Severity: SeverityError,
		}}
	}
	if !info.IsDir() {
		return []pathIssue{{
			Path:     path,
			Client:   clientName,
			Type:     "directory",
			Problem:  "expected directory but found file",
			Severity: SeverityError,
		}}
	}

	var issues []pathIssue
	if writable, err := isDirectoryWritable(path); err != nil || !writable {
		issues = append(issues, pathIssue{
			Path:        path,
			Client:      clientName,
			Type:        "directory",
			Problem:     "directory is not writable",
			Severity:    SeverityError,
			Permissions: formatPermissions(info.Mode()),
			FixHint:     "chmod u+w " + path,
		})
	}
	if runtime.GOOS != "windows" {
		issues = append(issues, checkPermissions(path, clientName, "directory", info.Mode(), secureDirPerm)...)
	}
	return issues
}

// checkPermissions reports group or world access beyond want.
func checkPermissions(path, clientName, kind string, mode, want os.FileMode) []pathIssue {
	perm := mode.Perm()
	if perm&0o077 == 0 {
		return nil
	}
	problem := kind + " is accessible by other users"
	if perm&0o002 != 0 {
		problem = kind + " is world-writable"
	}
	return []pathIssue{{
		Path:        path,
		Client:      clientName,
		Type:        kind,
		Problem:     problem,
		Severity:    SeverityWarning,
		Permissions: formatPermissions(mode),
		Fixable:     true,
		FixHint:     fmt.Sprintf("chmod %04o %s", want, path),
	}}
}

// isDirectoryWritable tests if a directory is writable by creating a temp file.
func isDirectoryWritable(path string) (bool, error) {
	f, err := os.CreateTemp(path, ".mcpsync-doctor-*")
	if err != nil {
		return false, err
	}
	name := f.Name()
	f.Close()
	return true, os.Remove(name)
}

// buildResult constructs the final CheckResult from accumulated issues.
func (c *PathPermissionCheck) buildResult(issues []pathIssue, checked int) *CheckResult {
	if len(issues) == 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  fmt.Sprintf("all %d paths have valid permissions", checked),
		}
	}

	status := SeverityPass
	for _, issue := range issues {
		if issue.Severity > status {
			status = issue.Severity
		}
	}

	issueDetails := make([]map[string]any, 0, len(issues))
	var fixHints []string
	fixable := false
	for _, issue := range issues {
		m := map[string]any{
			"path":     issue.Path,
			"client":   issue.Client,
			"type":     issue.Type,
			"problem":  issue.Problem,
			"severity": issue.Severity.String(),
		}
		if issue.Permissions != "" {
			m["permissions"] = issue.Permissions
		}
		if issue.FixHint != "" {
			m["fix_hint"] = issue.FixHint
		}
		issueDetails = append(issueDetails, m)

		if issue.Fixable {
			fixable = true
			if issue.FixHint != "" {
				fixHints = append(fixHints, issue.FixHint)
			}
		}
	}

	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   status,
		Message:  fmt.Sprintf("found %d permission issue(s) across %d paths", len(issues), checked),
		Details: map[string]any{
			"checked_paths": checked,
			"issue_count":   len(issues),
			"issues":        issueDetails,
		},
		Fixable: fixable,
	}
	if len(fixHints) > 0 {
		result.FixHint = strings.Join(fixHints, "; ")
	}
	return result
}

// formatPermissions returns a human-readable permission string (e.g., "0600").
func formatPermissions(mode os.FileMode) string {
	return fmt.Sprintf("%04o", mode.Perm())
}

// ConfigSyntaxCheck parses client config files with the codec their
// adapter uses.
type ConfigSyntaxCheck struct {
	files []ClientFile
}

var _ Check = (*ConfigSyntaxCheck)(nil)

// NewConfigSyntaxCheck creates a syntax check over files.
func NewConfigSyntaxCheck(files []ClientFile) *ConfigSyntaxCheck {
	return &ConfigSyntaxCheck{files: files}
}

func (c *ConfigSyntaxCheck) Name() string     { return "config-syntax" }
func (c *ConfigSyntaxCheck) Category() string { return "config" }

// syntaxFileResult represents the validation result for a single file.
type syntaxFileResult struct {
	Client  string `json:"client"`
	Path    string `json:"path"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Run parses every file and reports the ones that do not decode.
func (c *ConfigSyntaxCheck) Run(_ context.Context) *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  make(map[string]any),
	}

	var fileResults []syntaxFileResult
	var errorCount, passCount, missingCount int
	for _, f := range c.files {
		if f.Path == "" {
			continue
		}
		fr := validateFile(f)
		fileResults = append(fileResults, fr)
		switch fr.Status {
		case "pass":
			passCount++
		case "error":
			errorCount++
		case "info":
			missingCount++
		}
	}

	result.Details["files"] = fileResults
	result.Details["checked"] = len(fileResults)
	result.Details["passed"] = passCount
	result.Details["errors"] = errorCount
	result.Details["missing"] = missingCount

	switch {
	case errorCount > 0:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%d config file(s) have syntax errors", errorCount)
		result.FixHint = "fix the syntax, or restore the .bak sidecar next to the file"
	case passCount > 0:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("%d config file(s) validated successfully", passCount)
	default:
		result.Status = SeverityInfo
		result.Message = "no config files found to validate"
	}
	return result
}

// codecFor picks the codec by file extension.
func codecFor(path string) store.Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return store.YAML{}
	default:
		return store.TOML{}
	}
}

func validateFile(f ClientFile) syntaxFileResult {
	fr := syntaxFileResult{Client: f.Client, Path: f.Path}

	_, err := store.New(f.Path, codecFor(f.Path)).Read()
	switch {
	case err == nil:
		if _, statErr := os.Stat(f.Path); os.IsNotExist(statErr) {
			fr.Status = "info"
			fr.Message = "file does not exist (not configured)"
			return fr
		}
		fr.Status = "pass"
	case errors.Is(err, errors.ErrConfigParse):
		fr.Status = "error"
		fr.Message = formatParseError(err)
	case errors.Is(err, os.ErrPermission):
		fr.Status = "error"
		fr.Message = fmt.Sprintf("permission denied: %v", err)
	default:
		fr.Status = "error"
		fr.Message = fmt.Sprintf("read error: %v", err)
	}
	return fr
}

// formatParseError adds line and column information to TOML decode errors.
func formatParseError(err error) string {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Sprintf("TOML syntax error at line %d, column %d: %s", row, col, decodeErr.Error())
	}
	var parseErr *errors.ConfigParseError
	if errors.As(err, &parseErr) {
		return fmt.Sprintf("syntax error: %v", parseErr.Err)
	}
	return err.Error()
}
