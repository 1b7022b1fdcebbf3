// internal/core/ports/exporter.go
package ports

import (
	"io"

	"credprobe/internal/core/domain"
)

// Exporter es el port para renderizar el resultado del audit en un
// formato concreto. Consumidor puro: recibe el AuditResult final y no
// participa en el engine.
type Exporter interface {
	// Name retorna el nombre del exporter (ej: "json", "html", "table")
	Name() string

	// Export escribe el resultado en el destino configurado del exporter
	Export(result *domain.AuditResult) error
}

// WriterExporter permite exportar a cualquier io.Writer.
type WriterExporter interface {
	Exporter

	// ExportToWriter escribe el resultado en un Writer arbitrario
	ExportToWriter(result *domain.AuditResult, w io.Writer) error
}
