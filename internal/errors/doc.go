// Package errors provides error handling conventions for the mcpsync CLI.
//
// The package re-exports the wrapping helpers from
// [github.com/cockroachdb/errors] so that callers need a single import, and
// defines the error taxonomy used by the synchronization engine.
//
// # Sentinel Errors
//
// Every typed error unwraps to a sentinel so callers can branch with [Is]:
//
//	if errors.Is(err, errors.ErrMissingEnv) {
//	    // export the variables and retry
//	}
//
// Use [As] to recover the structured details:
//
//	var parseErr *errors.ConfigParseError
//	if errors.As(err, &parseErr) {
//	    fmt.Println("broken file:", parseErr.Path)
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, external tools)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. It supports unwrapping via [Unwrap] and [As].
package errors
