// internal/core/domain/errors.go
package domain

import "errors"

// Errores de dominio comunes.
var (
	// Target errors
	ErrEmptyHost       = errors.New("host cannot be empty")
	ErrInvalidHost     = errors.New("invalid host format")
	ErrInvalidPort     = errors.New("invalid port")
	ErrInvalidProtocol = errors.New("invalid protocol")

	// Expansion errors (fatales antes de arrancar el engine)
	ErrNoTargets   = errors.New("target list is empty")
	ErrNoUsernames = errors.New("username list is empty")
	ErrNoPasswords = errors.New("password list is empty")
	ErrNoCheckers  = errors.New("no protocol checkers available")

	// Engine errors
	ErrInvalidWorkers = errors.New("concurrency limit must be at least 1")
	ErrInvalidTimeout = errors.New("attempt timeout must be positive")
	ErrInvalidRetries = errors.New("max retries cannot be negative")
	ErrAuditCanceled  = errors.New("audit was canceled")

	// Configuration errors
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrMissingConfig     = errors.New("missing required configuration")
	ErrConfigLoadFailed  = errors.New("failed to load configuration")
	ErrConfigParseFailed = errors.New("failed to parse configuration")

	// Export errors
	ErrExportFailed      = errors.New("export failed")
	ErrInvalidOutputPath = errors.New("invalid output path")
)
