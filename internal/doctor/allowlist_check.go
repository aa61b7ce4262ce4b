package doctor

import (
	"context"
	"fmt"
	"strings"
)

// AllowListRepairer is implemented by the Codex adapter.
type AllowListRepairer interface {
	ConfigPath() string
	MissingFromAllowList(ctx context.Context) ([]string, error)
	EnsureAllowList(ctx context.Context) (bool, error)
}

// AllowListCheck verifies that Codex passes every variable its servers
// reference through shell_environment_policy.include_only.
type AllowListCheck struct {
	codex   AllowListRepairer
	missing []string
}

var (
	_ Check = (*AllowListCheck)(nil)
	_ Fixer = (*AllowListCheck)(nil)
)

// NewAllowListCheck creates an allow-list check for the Codex adapter.
func NewAllowListCheck(codex AllowListRepairer) *AllowListCheck {
	return &AllowListCheck{codex: codex}
}

func (c *AllowListCheck) Name() string     { return "codex-allow-list" }
func (c *AllowListCheck) Category() string { return "codex" }

func (c *AllowListCheck) Run(ctx context.Context) *CheckResult {
	c.missing = nil
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	missing, err := c.codex.MissingFromAllowList(ctx)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot read Codex config: %v", err)
		return result
	}
	if len(missing) == 0 {
		result.Status = SeverityPass
		result.Message = "every referenced variable is allowed"
		return result
	}

	c.missing = missing
	result.Status = SeverityWarning
	result.Message = fmt.Sprintf("Codex will not pass %s to its servers", strings.Join(missing, ", "))
	result.Details = map[string]any{"path": c.codex.ConfigPath(), "missing": missing}
	result.Fixable = true
	result.FixHint = "run: mcpsync doctor --fix"
	return result
}

func (c *AllowListCheck) CanFix() bool {
	return len(c.missing) > 0
}

// Fix adds the missing variables to include_only.
func (c *AllowListCheck) Fix(ctx context.Context) []FixResult {
	res := FixResult{Path: c.codex.ConfigPath()}
	changed, err := c.codex.EnsureAllowList(ctx)
	switch {
	case err != nil:
		res.Error = err
		res.Description = fmt.Sprintf("failed to update allow-list: %v", err)
	case changed:
		res.Fixed = true
		res.Description = "added " + strings.Join(c.missing, ", ") + " to include_only"
	default:
		res.Fixed = true
		res.Description = "allow-list already complete"
	}
	return []FixResult{res}
}
