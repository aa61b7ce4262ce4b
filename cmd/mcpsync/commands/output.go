package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/thoreinstein/mcpsync/internal/integration"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	sameMark = color.New(color.FgHiBlack).Sprint("=")
	failMark = color.New(color.FgRed, color.Bold).Sprint("✗")
)

// printReport writes one line per successful operation. Failures are left
// to the returned error so they are printed once, by main.
func printReport(w io.Writer, report *integration.Report, changedVerb, unchangedVerb string) {
	for _, res := range report.Results {
		switch res.Outcome {
		case integration.OutcomeChanged:
			fmt.Fprintf(w, "%s %s/%s: %s\n", okMark, res.Client, res.Name, changedVerb)
		case integration.OutcomeUnchanged:
			fmt.Fprintf(w, "%s %s/%s: %s\n", sameMark, res.Client, res.Name, unchangedVerb)
		case integration.OutcomeFailed:
			fmt.Fprintf(w, "%s %s/%s: failed\n", failMark, res.Client, res.Name)
		}
	}
}

// reportError converts a failed report into the command's error.
func reportError(report *integration.Report) error {
	if !report.Failed() {
		return nil
	}
	return report.Err()
}
