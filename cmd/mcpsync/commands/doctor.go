package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/client"
	"github.com/thoreinstein/mcpsync/internal/config"
	"github.com/thoreinstein/mcpsync/internal/doctor"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

type doctorOptions struct {
	json bool
	all  bool
	fix  bool
}

func newDoctorCmd(root *rootOptions) *cobra.Command {
	o := &doctorOptions{}
	c := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration issues",
		Long: `Run diagnostic checks on mcpsync and client configurations.

Checks that client config files parse, that they are private to the current
user, that Codex passes every variable its servers need, which clients are
installed, and that the curated registry is readable.

Output modes:
  (default)   Show errors and warnings
  --all       Show every check, including passed ones
  --json      Machine-readable JSON output
  -q          No output, exit code only

Exit codes:
  0 - No errors or warnings
  1 - Warnings present, no errors
  2 - Errors present`,
		Args: cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if o.json && o.all {
				return errors.NewUserError(errors.New("flags --json and --all are mutually exclusive"), "")
			}
			return nil
		},
		RunE: func(c *cobra.Command, _ []string) error {
			runner := buildDoctor(root)
			report := runner.Run(c.Context())

			var fixes []doctor.FixResult
			if o.fix {
				fixes = runner.Fix(c.Context())
				if len(fixes) > 0 {
					report = runner.Run(c.Context())
				}
			}

			if !root.quiet {
				w := c.OutOrStdout()
				if o.json {
					if err := writeDoctorJSON(w, report, fixes); err != nil {
						return err
					}
				} else {
					writeFixes(w, fixes)
					writeDoctorText(w, report, o.all)
				}
			}

			switch {
			case report.HasErrors():
				return errors.NewExitError(nil, errors.ExitSystem)
			case report.HasWarnings():
				return errors.NewExitError(nil, errors.ExitUser)
			}
			return nil
		},
	}
	c.Flags().BoolVar(&o.json, "json", false, "output results as JSON")
	c.Flags().BoolVar(&o.all, "all", false, "show every check, including passed ones")
	c.Flags().BoolVar(&o.fix, "fix", false, "repair fixable issues")
	return c
}

// buildDoctor assembles the checks for the configured clients. A client
// whose adapter cannot be built is left to the app-config check.
func buildDoctor(root *rootOptions) *doctor.Runner {
	a := root.app
	cfg := root.cfg

	var files []doctor.ClientFile
	var allowList doctor.AllowListRepairer
	for _, name := range paths.Clients() {
		adapter, err := a.clients.Get(name)
		if err != nil {
			continue
		}
		if fb, ok := adapter.(client.FileBacked); ok {
			files = append(files, doctor.ClientFile{Client: name, Path: fb.ConfigPath()})
		}
		if r, ok := adapter.(doctor.AllowListRepairer); ok {
			allowList = r
		}
	}

	detector := &client.Detector{
		Home:         a.home,
		Lookup:       a.lookup,
		ClaudeBinary: cfg.Client(paths.ClientClaude).Binary,
	}

	runner := doctor.NewRunner()
	runner.AddCheck(doctor.NewAppConfigCheck(config.FileUsed(), root.cfgErr))
	runner.AddCheck(doctor.NewClientDetectionCheck(detector, cfg.DefaultClients))
	runner.AddCheck(doctor.NewConfigSyntaxCheck(files))
	runner.AddCheck(doctor.NewPathPermissionCheck(files))
	if allowList != nil {
		runner.AddCheck(doctor.NewAllowListCheck(allowList))
	}
	runner.AddCheck(doctor.NewBackupCheck(files))
	runner.AddCheck(doctor.NewRegistryCheck(a.curated))
	return runner
}

type doctorJSON struct {
	*doctor.DoctorReport
	Fixes []doctor.FixResult `json:"fixes,omitempty"`
}

func writeDoctorJSON(w io.Writer, report *doctor.DoctorReport, fixes []doctor.FixResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(doctorJSON{DoctorReport: report, Fixes: fixes}), "encoding JSON")
}

func writeFixes(w io.Writer, fixes []doctor.FixResult) {
	for _, f := range fixes {
		mark := okMark
		if !f.Fixed {
			mark = failMark
		}
		fmt.Fprintf(w, "%s fixed %s: %s\n", mark, f.Path, f.Description)
	}
	if len(fixes) > 0 {
		fmt.Fprintln(w)
	}
}

func writeDoctorText(w io.Writer, report *doctor.DoctorReport, showAll bool) {
	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)
		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return color.GreenString("✓")
	case doctor.SeverityInfo:
		return color.BlueString("ℹ")
	case doctor.SeverityWarning:
		return color.YellowString("⚠")
	case doctor.SeverityError:
		return color.RedString("✗")
	default:
		return "?"
	}
}
