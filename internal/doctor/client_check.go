package doctor

import (
	"context"
	"fmt"
	"slices"

	"github.com/thoreinstein/mcpsync/internal/client"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

// ClientDetectionCheck reports which supported clients are installed.
type ClientDetectionCheck struct {
	detector *client.Detector
	wanted   []string
}

var _ Check = (*ClientDetectionCheck)(nil)

// NewClientDetectionCheck creates a detection check. wanted lists the
// clients mcpsync targets by default; a missing one is a warning.
func NewClientDetectionCheck(d *client.Detector, wanted []string) *ClientDetectionCheck {
	return &ClientDetectionCheck{detector: d, wanted: wanted}
}

func (c *ClientDetectionCheck) Name() string     { return "client-detection" }
func (c *ClientDetectionCheck) Category() string { return "client" }

// Run executes the client detection check and returns its result.
func (c *ClientDetectionCheck) Run(_ context.Context) *CheckResult {
	results := c.detector.DetectAll()

	clients := make(map[string]any, len(results))
	var installed []string
	var missingWanted []string
	for _, r := range results {
		clients[r.Name] = map[string]any{
			"status":   string(r.Status),
			"location": r.Location,
		}
		if r.Status == client.StatusInstalled {
			installed = append(installed, r.Name)
		} else if slices.Contains(c.wanted, r.Name) {
			missingWanted = append(missingWanted, r.Name)
		}
	}

	details := map[string]any{
		"clients":       clients,
		"installed":     len(installed),
		"not_installed": len(results) - len(installed),
		"total":         len(results),
	}

	switch {
	case len(installed) == 0:
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  "no MCP clients detected; mcpsync has nothing to manage",
			Details:  details,
			FixHint:  "install Codex, Claude Code or Goose",
		}
	case len(missingWanted) > 0:
		hint := "remove them from default_clients or install them"
		if slices.Contains(missingWanted, paths.ClientClaude) {
			hint = "put the claude binary on PATH (or set clients.claude.binary), or " + hint
		}
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityWarning,
			Message:  fmt.Sprintf("default client(s) not installed: %v", missingWanted),
			Details:  details,
			FixHint:  hint,
		}
	default:
		msg := fmt.Sprintf("%d client(s) installed", len(installed))
		if n := len(results) - len(installed); n > 0 {
			msg += fmt.Sprintf(", %d not configured", n)
		}
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  msg,
			Details:  details,
		}
	}
}
