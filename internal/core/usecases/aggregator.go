// internal/core/usecases/aggregator.go
package usecases

import (
	"sync"
	"time"

	"credprobe/internal/core/domain"
	"credprobe/internal/platform/logx"
)

// ResultAggregator acumula los resultados terminales de todos los trials
// en orden de llegada y mantiene los contadores del summary. Record es
// síncrono: cuando retorna, el resultado es visible en Snapshot.
type ResultAggregator struct {
	mu sync.Mutex

	results    []domain.TrialResult
	byProtocol map[domain.Protocol]domain.ProtocolStats
	summary    domain.Summary

	startTime time.Time
	logger    logx.Logger

	observer func(domain.TrialResult)
}

// NewResultAggregator crea un agregador vacío. El reloj del summary
// arranca aquí: StartTime es el momento de construcción.
func NewResultAggregator(logger logx.Logger) *ResultAggregator {
	return &ResultAggregator{
		results:    make([]domain.TrialResult, 0, 64),
		byProtocol: make(map[domain.Protocol]domain.ProtocolStats),
		startTime:  time.Now(),
		logger:     logger.With("component", "aggregator"),
	}
}

// SetObserver registra un callback que recibe cada resultado justo
// después de registrarse. Para notificar UI; debe fijarse antes de
// arrancar el scheduler.
func (a *ResultAggregator) SetObserver(fn func(domain.TrialResult)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observer = fn
}

// Record registra un resultado terminal. Cada trial lógico se registra
// exactamente una vez; el scheduler garantiza esa unicidad.
func (a *ResultAggregator) Record(res domain.TrialResult) {
	a.mu.Lock()

	a.results = append(a.results, res)

	a.summary.Total++
	stats := a.byProtocol[res.Descriptor.Service.Protocol]
	stats.Total++

	switch res.Outcome.Class {
	case domain.OutcomeSuccess:
		a.summary.Success++
		stats.Success++
	case domain.OutcomeAuthFailure:
		a.summary.AuthFailure++
		stats.AuthFailure++
	case domain.OutcomeNetworkError:
		a.summary.NetworkError++
		stats.NetworkError++
	case domain.OutcomeTimeout:
		a.summary.Timeout++
		stats.Timeout++
	}

	a.byProtocol[res.Descriptor.Service.Protocol] = stats
	observer := a.observer
	a.mu.Unlock()

	a.logger.Debug("result recorded",
		"tuple", res.Descriptor.Key().String(),
		"class", res.Outcome.Class,
		"attempt", res.Descriptor.Attempt,
		"duration_ms", res.Duration.Milliseconds(),
	)

	// Fuera del lock: el observer puede consultar el agregador
	if observer != nil {
		observer(res)
	}
}

// Count retorna el número de resultados registrados.
func (a *ResultAggregator) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.results)
}

// SuccessCount retorna el número de éxitos registrados.
func (a *ResultAggregator) SuccessCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.summary.Success
}

// Snapshot retorna una copia consistente de resultados y summary. El
// summary de la copia cierra el reloj: EndTime y Duration se calculan
// en el momento de la llamada.
func (a *ResultAggregator) Snapshot() domain.AuditResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	results := make([]domain.TrialResult, len(a.results))
	copy(results, a.results)

	byProtocol := make(map[domain.Protocol]domain.ProtocolStats, len(a.byProtocol))
	for p, s := range a.byProtocol {
		byProtocol[p] = s
	}

	now := time.Now()
	summary := a.summary
	summary.ByProtocol = byProtocol
	summary.StartTime = a.startTime
	summary.EndTime = now
	summary.Duration = now.Sub(a.startTime)

	return domain.AuditResult{
		Results: results,
		Summary: summary,
	}
}
