// internal/platform/ui/presenter.go
package ui

import (
	"credprobe/internal/core/domain"
)

// Presenter define la interfaz para presentar el progreso del audit de
// credenciales de manera visual en la terminal.
type Presenter interface {
	// Start inicia la presentación con la configuración del audit
	Start(info AuditInfo)

	// Progress actualiza el contador de trials completados
	Progress(done, skipped int)

	// Hit muestra una credencial válida descubierta en tiempo real
	Hit(result domain.TrialResult)

	// Info muestra un mensaje informativo
	Info(msg string)

	// Warning muestra una advertencia
	Warning(msg string)

	// Error muestra un error
	Error(msg string)

	// Finish finaliza la presentación con el summary del audit
	Finish(summary domain.Summary)

	// Close limpia recursos del presenter
	Close() error
}

// AuditInfo contiene la configuración inicial mostrada en el header.
type AuditInfo struct {
	Targets        int
	Protocols      []domain.Protocol
	Usernames      int
	Passwords      int
	TotalTrials    int
	Workers        int
	TimeoutSeconds int
	MaxRetries     int
	ShortCircuit   bool
	ProxyURL       string
}
