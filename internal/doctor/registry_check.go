package doctor

import (
	"context"
	"fmt"

	"github.com/thoreinstein/mcpsync/internal/registry"
)

// Scanner reads a registry directory. *registry.Curated satisfies it.
type Scanner interface {
	Dir() string
	Scan() ([]*registry.Entry, []error, error)
}

// RegistryCheck validates the curated registry files.
type RegistryCheck struct {
	source Scanner
}

var _ Check = (*RegistryCheck)(nil)

func NewRegistryCheck(source Scanner) *RegistryCheck {
	return &RegistryCheck{source: source}
}

func (c *RegistryCheck) Name() string     { return "registry" }
func (c *RegistryCheck) Category() string { return "registry" }

func (c *RegistryCheck) Run(_ context.Context) *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	entries, problems, err := c.source.Scan()
	if err != nil {
		result.Status = SeverityError
		result.Message = err.Error()
		return result
	}

	var noCommand []string
	for _, e := range entries {
		if e.Command == "" && len(e.Metadata.Clients) == 0 {
			noCommand = append(noCommand, e.Name)
		}
	}

	messages := make([]string, 0, len(problems))
	for _, p := range problems {
		messages = append(messages, p.Error())
	}
	result.Details = map[string]any{
		"dir":        c.source.Dir(),
		"entries":    len(entries),
		"problems":   messages,
		"no_command": noCommand,
	}

	switch {
	case len(problems) > 0:
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%d registry file(s) could not be parsed", len(problems))
		result.FixHint = "fix or remove the files listed under problems"
	case len(noCommand) > 0:
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%d registry entr(ies) define no command", len(noCommand))
		result.FixHint = "add a command, or pass --command when integrating"
	case len(entries) == 0:
		result.Status = SeverityInfo
		result.Message = "registry is empty: " + c.source.Dir()
	default:
		result.Status = SeverityPass
		result.Message = fmt.Sprintf("%d registry entr(ies) loaded", len(entries))
	}
	return result
}
