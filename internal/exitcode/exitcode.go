// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task ref, blank title).
	UserError = 1

	// ConfigError indicates a config or auth error (bad config.yaml, unknown backend, missing token).
	ConfigError = 2

	// StorageError indicates a storage error (unreadable file, database or API failure).
	StorageError = 3
)
