package orderpipe

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Run completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitConnectionError = 11 // Failed to connect to database
	ExitExtractError    = 12 // Source directory empty or records unreadable
	ExitTransformError  = 13 // Record failed normalization
	ExitLoadError       = 14 // Database load failed and was rolled back
)

const (
	// DefaultRunTimeout is the default wall-clock budget for a full run.
	DefaultRunTimeout = 3 * time.Minute

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// AddressHashLength is the number of hex characters kept from the
	// SHA-256 digest when deriving a synthetic address identifier.
	AddressHashLength = 32

	// CoordinatePrecision is the number of decimal places coordinates are
	// rounded to before they participate in address hashing. Two readings
	// of the same location that differ below ~1 meter hash identically.
	CoordinatePrecision = 5

	// DefaultLogDirName is the directory run log files are written to
	// when file logging is enabled without an explicit path.
	DefaultLogDirName = "logs"

	// DefaultSMTPPort is the submission port used when SMTP_PORT is unset.
	DefaultSMTPPort = 587
)
