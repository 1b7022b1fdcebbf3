// internal/core/domain/summary.go
package domain

import "time"

// ProtocolStats es el desglose de resultados de un protocolo.
type ProtocolStats struct {
	Total        int `json:"total"`
	Success      int `json:"success"`
	AuthFailure  int `json:"auth_failure"`
	NetworkError int `json:"network_error"`
	Timeout      int `json:"timeout"`
}

// Summary es el agregado derivado de todos los resultados terminales.
// Propiedad del agregador; los consumidores reciben copias.
type Summary struct {
	Total        int `json:"total"`
	Success      int `json:"success"`
	AuthFailure  int `json:"auth_failure"`
	NetworkError int `json:"network_error"`
	Timeout      int `json:"timeout"`

	ByProtocol map[Protocol]ProtocolStats `json:"by_protocol"`

	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
}

// Failures retorna el total de resultados no exitosos.
func (s Summary) Failures() int {
	return s.AuthFailure + s.NetworkError + s.Timeout
}

// AuditResult es el contrato de salida del engine: la lista ordenada de
// resultados terminales más el summary, entregados al renderer de
// reportes (consumidor externo puro).
type AuditResult struct {
	Results []TrialResult `json:"results"`
	Summary Summary       `json:"summary"`
}

// SuccessResults retorna solo los resultados con credencial válida, en
// orden de llegada.
func (r AuditResult) SuccessResults() []TrialResult {
	out := make([]TrialResult, 0)
	for _, res := range r.Results {
		if res.Outcome.Class == OutcomeSuccess {
			out = append(out, res)
		}
	}
	return out
}
