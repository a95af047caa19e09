// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates normal completion. Handled user errors such as a
	// missing description or an unknown task id also exit with Success.
	Success = 0

	// StoreError indicates the task file could not be read or written.
	StoreError = 1

	// ConfigError indicates an unreadable or malformed config file.
	ConfigError = 2

	// InputError indicates the interactive menu could not read its input.
	InputError = 3

	// Interrupted indicates the run was cancelled by SIGINT or SIGTERM.
	Interrupted = 130
)
