// internal/adapters/output/html.go
package output

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"credprobe/internal/core/domain"
)

// HTMLExporter genera un reporte HTML autocontenido con el summary del
// audit y la tabla de credenciales descubiertas.
type HTMLExporter struct {
	dir  string
	tmpl *template.Template
}

// NewHTMLExporter crea un exporter HTML sobre el directorio dado.
func NewHTMLExporter(dir string) *HTMLExporter {
	if dir == "" {
		dir = "."
	}
	return &HTMLExporter{
		dir:  dir,
		tmpl: template.Must(template.New("report").Funcs(reportFuncs).Parse(reportTemplate)),
	}
}

// Name retorna el nombre del exporter.
func (e *HTMLExporter) Name() string { return "html" }

// Export escribe el reporte en credprobe_<timestamp>.html.
func (e *HTMLExporter) Export(result *domain.AuditResult) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("credprobe_%s.html", timestamp)
	path := filepath.Join(e.dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}
	defer f.Close()

	return e.ExportToWriter(result, f)
}

// ExportToWriter renderiza el template HTML en un Writer.
func (e *HTMLExporter) ExportToWriter(result *domain.AuditResult, w io.Writer) error {
	data := reportData{
		Result:      result,
		Hits:        result.SuccessResults(),
		GeneratedAt: time.Now(),
		Protocols:   protocolRows(result.Summary),
	}
	if err := e.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}
	return nil
}

type reportData struct {
	Result      *domain.AuditResult
	Hits        []domain.TrialResult
	GeneratedAt time.Time
	Protocols   []protocolRow
}

type protocolRow struct {
	Protocol domain.Protocol
	Stats    domain.ProtocolStats
}

// protocolRows retorna el desglose por protocolo en orden estable.
func protocolRows(s domain.Summary) []protocolRow {
	rows := make([]protocolRow, 0, len(s.ByProtocol))
	for _, protocol := range domain.KnownProtocols {
		if stats, ok := s.ByProtocol[protocol]; ok {
			rows = append(rows, protocolRow{Protocol: protocol, Stats: stats})
		}
	}
	return rows
}

var reportFuncs = template.FuncMap{
	"roundms": func(d time.Duration) string {
		return d.Round(time.Millisecond).String()
	},
	"datetime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04:05")
	},
}

const reportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>credprobe report</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem; color: #1c2733; }
  h1 { font-size: 1.4rem; }
  h2 { font-size: 1.1rem; margin-top: 2rem; }
  table { border-collapse: collapse; margin-top: 0.5rem; }
  th, td { border: 1px solid #cbd5e0; padding: 0.35rem 0.8rem; text-align: left; }
  th { background: #edf2f7; }
  .summary td:first-child { font-weight: 600; }
  .hit td { background: #f0fff4; }
  .empty { color: #718096; font-style: italic; }
  footer { margin-top: 2rem; font-size: 0.8rem; color: #718096; }
</style>
</head>
<body>
<h1>credprobe audit report</h1>

<h2>Summary</h2>
<table class="summary">
  <tr><td>Started</td><td>{{datetime .Result.Summary.StartTime}}</td></tr>
  <tr><td>Finished</td><td>{{datetime .Result.Summary.EndTime}}</td></tr>
  <tr><td>Duration</td><td>{{roundms .Result.Summary.Duration}}</td></tr>
  <tr><td>Total trials</td><td>{{.Result.Summary.Total}}</td></tr>
  <tr><td>Credentials found</td><td>{{.Result.Summary.Success}}</td></tr>
  <tr><td>Rejected</td><td>{{.Result.Summary.AuthFailure}}</td></tr>
  <tr><td>Network errors</td><td>{{.Result.Summary.NetworkError}}</td></tr>
  <tr><td>Timeouts</td><td>{{.Result.Summary.Timeout}}</td></tr>
</table>

<h2>Discovered credentials</h2>
{{if .Hits}}
<table>
  <tr><th>Host</th><th>Protocol</th><th>Port</th><th>Username</th><th>Password</th><th>Attempt</th><th>Duration</th></tr>
  {{range .Hits}}
  <tr class="hit">
    <td>{{.Descriptor.Target.Host}}</td>
    <td>{{.Descriptor.Service.Protocol}}</td>
    <td>{{.Descriptor.Service.Port}}</td>
    <td>{{.Descriptor.Credential.Username}}</td>
    <td><code>{{.Descriptor.Credential.Password}}</code></td>
    <td>{{.Descriptor.Attempt}}</td>
    <td>{{roundms .Duration}}</td>
  </tr>
  {{end}}
</table>
{{else}}
<p class="empty">No valid credentials discovered.</p>
{{end}}

<h2>Results by protocol</h2>
{{if .Protocols}}
<table>
  <tr><th>Protocol</th><th>Trials</th><th>Hits</th><th>Rejected</th><th>Network errors</th><th>Timeouts</th></tr>
  {{range .Protocols}}
  <tr>
    <td>{{.Protocol}}</td>
    <td>{{.Stats.Total}}</td>
    <td>{{.Stats.Success}}</td>
    <td>{{.Stats.AuthFailure}}</td>
    <td>{{.Stats.NetworkError}}</td>
    <td>{{.Stats.Timeout}}</td>
  </tr>
  {{end}}
</table>
{{else}}
<p class="empty">No trials executed.</p>
{{end}}

<footer>Generated by credprobe at {{datetime .GeneratedAt}}</footer>
</body>
</html>
`
