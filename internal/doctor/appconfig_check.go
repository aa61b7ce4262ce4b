package doctor

import (
	"context"
)

// AppConfigCheck reports the outcome of loading mcpsync's own config.
// The load happens before the doctor runs; its error is passed in.
type AppConfigCheck struct {
	path string
	err  error
}

var _ Check = (*AppConfigCheck)(nil)

// NewAppConfigCheck records the config file used (empty when defaults
// applied) and the error from loading it.
func NewAppConfigCheck(path string, loadErr error) *AppConfigCheck {
	return &AppConfigCheck{path: path, err: loadErr}
}

func (c *AppConfigCheck) Name() string     { return "app-config" }
func (c *AppConfigCheck) Category() string { return "config" }

func (c *AppConfigCheck) Run(_ context.Context) *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}
	switch {
	case c.err != nil:
		result.Status = SeverityError
		result.Message = c.err.Error()
		result.FixHint = "fix the mcpsync config file or pass --config"
	case c.path == "":
		result.Status = SeverityInfo
		result.Message = "no config file found; using defaults"
	default:
		result.Status = SeverityPass
		result.Message = "loaded " + c.path
	}
	return result
}
