// internal/adapters/output/json.go
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"credprobe/internal/core/domain"
)

// JSONExporter escribe el reporte completo del audit (resultados más
// summary) en un fichero JSON con timestamp dentro del directorio de
// reportes. El JSON siempre se genera: es la salida canónica.
type JSONExporter struct {
	dir string
}

// NewJSONExporter crea un exporter JSON sobre el directorio dado.
func NewJSONExporter(dir string) *JSONExporter {
	if dir == "" {
		dir = "."
	}
	return &JSONExporter{dir: dir}
}

// Name retorna el nombre del exporter.
func (e *JSONExporter) Name() string { return "json" }

// Export escribe el reporte en credprobe_<timestamp>.json.
func (e *JSONExporter) Export(result *domain.AuditResult) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("credprobe_%s.json", timestamp)
	path := filepath.Join(e.dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}
	defer f.Close()

	return e.ExportToWriter(result, f)
}

// ExportToWriter escribe el reporte JSON indentado en un Writer.
func (e *JSONExporter) ExportToWriter(result *domain.AuditResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}
	return nil
}
