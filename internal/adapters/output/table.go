// internal/adapters/output/table.go
package output

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"credprobe/internal/core/domain"
)

// TableExporter imprime el resultado del audit como tabla legible en
// terminal: las credenciales descubiertas primero y el desglose por
// protocolo después.
type TableExporter struct {
	out io.Writer
}

// NewTableExporter crea un exporter de tabla sobre stdout.
func NewTableExporter() *TableExporter {
	return &TableExporter{out: os.Stdout}
}

// Name retorna el nombre del exporter.
func (e *TableExporter) Name() string { return "table" }

// Export imprime la tabla en el destino del exporter.
func (e *TableExporter) Export(result *domain.AuditResult) error {
	return e.ExportToWriter(result, e.out)
}

// ExportToWriter imprime la tabla en un Writer arbitrario.
func (e *TableExporter) ExportToWriter(result *domain.AuditResult, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== credprobe Audit Results ===\n")
	fmt.Fprintf(tw, "Duration:\t%s\n", result.Summary.Duration.Round(10_000_000)) // 10ms
	fmt.Fprintf(tw, "Trials:\t%d\n", result.Summary.Total)
	fmt.Fprintf(tw, "Hits:\t%d\n\n", result.Summary.Success)

	hits := result.SuccessResults()
	if len(hits) > 0 {
		fmt.Fprintln(tw, "HOST\tPROTOCOL\tPORT\tUSERNAME\tPASSWORD\tATTEMPT\tDURATION")
		fmt.Fprintln(tw, "----\t--------\t----\t--------\t--------\t-------\t--------")

		for _, hit := range hits {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%d\t%s\n",
				hit.Descriptor.Target.Host,
				hit.Descriptor.Service.Protocol,
				hit.Descriptor.Service.Port,
				hit.Descriptor.Credential.Username,
				hit.Descriptor.Credential.Password,
				hit.Descriptor.Attempt,
				hit.Duration.Round(1_000_000), // 1ms
			)
		}
	} else {
		fmt.Fprintln(tw, "No valid credentials discovered.")
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}

	// Desglose por protocolo en orden estable
	fmt.Fprintln(w, "\nResults by protocol:")
	for _, protocol := range domain.KnownProtocols {
		stats, ok := result.Summary.ByProtocol[protocol]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  - %s: %d trials, %d hits, %d rejected, %d network errors, %d timeouts\n",
			protocol, stats.Total, stats.Success, stats.AuthFailure, stats.NetworkError, stats.Timeout)
	}

	fmt.Fprintln(w)
	return nil
}
