// Package doctor provides diagnostic checks for mcpsync and the client
// configurations it manages.
//
// Each [Check] inspects one concern and reports a [CheckResult]. A [Runner]
// executes checks in order and aggregates them into a [DoctorReport]:
//
//	runner := doctor.NewRunner()
//	runner.AddCheck(doctor.NewClientDetectionCheck(detector))
//	runner.AddCheck(doctor.NewConfigSyntaxCheck(files))
//	report := runner.Run(ctx)
//	if report.HasErrors() {
//	    // ...
//	}
//
// Checks that can repair what they find implement [Fixer].
package doctor
