// internal/platform/ui/noop_presenter.go
package ui

import "credprobe/internal/core/domain"

// NoopPresenter es una implementación vacía del Presenter
// que no produce ninguna salida. Útil para modo quiet o headless.
type NoopPresenter struct{}

// NewNoopPresenter crea una instancia del presenter sin salida
func NewNoopPresenter() *NoopPresenter {
	return &NoopPresenter{}
}

// Start no hace nada
func (n *NoopPresenter) Start(info AuditInfo) {}

// Progress no hace nada
func (n *NoopPresenter) Progress(done, skipped int) {}

// Hit no hace nada
func (n *NoopPresenter) Hit(result domain.TrialResult) {}

// Info no hace nada
func (n *NoopPresenter) Info(msg string) {}

// Warning no hace nada
func (n *NoopPresenter) Warning(msg string) {}

// Error no hace nada
func (n *NoopPresenter) Error(msg string) {}

// Finish no hace nada
func (n *NoopPresenter) Finish(summary domain.Summary) {}

// Close no hace nada
func (n *NoopPresenter) Close() error {
	return nil
}
