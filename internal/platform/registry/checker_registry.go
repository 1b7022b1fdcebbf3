// internal/platform/registry/checker_registry.go
package registry

import (
	"fmt"
	"sort"
	"sync"

	"credprobe/internal/core/domain"
	"credprobe/internal/core/ports"
	"credprobe/internal/platform/errors"
	"credprobe/internal/platform/logx"
)

// CheckerRegistry gestiona el registro y construcción de checkers.
// Implementa el patrón Registry + Factory para desacoplar la creación
// de checkers del código de aplicación: un protocolo nuevo añade su
// paquete con un init() que registra su factory, sin tocar el scheduler.
type CheckerRegistry struct {
	mu        sync.RWMutex
	factories map[domain.Protocol]ports.CheckerFactory
	metadata  map[domain.Protocol]ports.CheckerMetadata
	logger    logx.Logger
}

// globalRegistry es la instancia global del registry.
var globalRegistry *CheckerRegistry
var once sync.Once

// Global retorna la instancia global del registry.
func Global() *CheckerRegistry {
	once.Do(func() {
		globalRegistry = NewCheckerRegistry(logx.New())
	})
	return globalRegistry
}

// NewCheckerRegistry crea un nuevo registry de checkers.
func NewCheckerRegistry(logger logx.Logger) *CheckerRegistry {
	return &CheckerRegistry{
		factories: make(map[domain.Protocol]ports.CheckerFactory),
		metadata:  make(map[domain.Protocol]ports.CheckerMetadata),
		logger:    logger.With("component", "checker-registry"),
	}
}

// Register registra una checker factory con su metadata.
// Típicamente llamado desde init() de cada paquete de checker.
func (r *CheckerRegistry) Register(protocol domain.Protocol, factory ports.CheckerFactory, meta ports.CheckerMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !protocol.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidProtocol, protocol)
	}

	if factory == nil {
		return fmt.Errorf("factory cannot be nil for protocol %s", protocol)
	}

	if _, exists := r.factories[protocol]; exists {
		return fmt.Errorf("protocol %s is already registered", protocol)
	}

	r.factories[protocol] = factory
	r.metadata[protocol] = meta
	r.logger.Debug("checker registered", "protocol", protocol, "default_port", meta.DefaultPort)

	return nil
}

// Build construye los checkers de todos los protocolos habilitados según
// la configuración. Retorna el mapa protocolo -> checker que consume el
// scheduler.
func (r *CheckerRegistry) Build(configs map[domain.Protocol]ports.CheckerConfig, logger logx.Logger) (map[domain.Protocol]ports.Checker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if configs == nil {
		return nil, fmt.Errorf("configs cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	checkers := make(map[domain.Protocol]ports.Checker)
	var buildErrs []error

	for protocol, cfg := range configs {
		if !cfg.Enabled {
			continue
		}

		factory, exists := r.factories[protocol]
		if !exists {
			r.logger.Warn("checker not registered, skipping", "protocol", protocol)
			buildErrs = append(buildErrs, fmt.Errorf("protocol %s not registered in registry", protocol))
			continue
		}

		checker, err := factory(cfg, logger)
		if err != nil {
			buildErrs = append(buildErrs, fmt.Errorf("failed to build %s checker: %w", protocol, err))
			continue
		}

		checkers[protocol] = checker
		r.logger.Debug("checker built", "protocol", protocol, "port", cfg.Port)
	}

	// Un protocolo habilitado que no puede construirse es un error fatal
	// de configuración: seguir sin él dejaría sus trials sin resultado.
	if len(buildErrs) > 0 {
		for _, err := range buildErrs {
			r.logger.Warn("checker build error", "error", err.Error())
		}
		return nil, errors.Wrap(errors.Join(buildErrs...), "checker build failed")
	}

	if len(checkers) == 0 && len(configs) > 0 {
		return nil, domain.ErrNoCheckers
	}

	logger.Info("checkers built", "count", len(checkers), "requested", len(configs))
	return checkers, nil
}

// List retorna los protocolos registrados en orden estable.
func (r *CheckerRegistry) List() []domain.Protocol {
	r.mu.RLock()
	defer r.mu.RUnlock()

	protocols := make([]domain.Protocol, 0, len(r.factories))
	for p := range r.factories {
		protocols = append(protocols, p)
	}
	sort.Slice(protocols, func(i, j int) bool { return protocols[i] < protocols[j] })
	return protocols
}

// GetMetadata retorna el metadata de un checker.
func (r *CheckerRegistry) GetMetadata(protocol domain.Protocol) (ports.CheckerMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, exists := r.metadata[protocol]
	return meta, exists
}

// IsRegistered verifica si un protocolo está registrado.
func (r *CheckerRegistry) IsRegistered(protocol domain.Protocol) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[protocol]
	return exists
}

// Clear elimina todos los checkers registrados (útil para testing).
func (r *CheckerRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories = make(map[domain.Protocol]ports.CheckerFactory)
	r.metadata = make(map[domain.Protocol]ports.CheckerMetadata)
}
