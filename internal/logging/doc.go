// Package logging provides structured logging for the mcpsync CLI using slog.
//
// The package supports text and JSON output formats, verbosity-driven log
// levels, rotating log files and helpers for testing. All loggers are based
// on the standard library's [log/slog] package. Attribute values that look
// like secrets (API keys, tokens, URL passwords) are masked by every
// handler the package constructs.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(verbosity),
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	ctx = logging.NewContext(ctx, logger)
//
// Code deeper in the call chain recovers it with [FromContext].
//
// # Log Files
//
// [NewFileHandler] writes JSON records through a size-rotated file. Combine
// it with the terminal handler using [NewMultiHandler].
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework:
//
//	func TestSomething(t *testing.T) {
//		logger := logging.ForTest(t)
//		// logs appear in test output on failure
//	}
//
// Use [NewDiscard] when log output should be suppressed entirely.
package logging
