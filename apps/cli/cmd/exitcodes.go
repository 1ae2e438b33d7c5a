package cmd

// Exit codes for checkrun CLI
const (
	// ExitSuccess indicates all suites passed
	ExitSuccess = 0

	// ExitTestFailure indicates one or more suites failed
	ExitTestFailure = 1

	// ExitFatalError indicates the run itself crashed
	ExitFatalError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
