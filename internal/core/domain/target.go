// internal/core/domain/target.go
package domain

import (
	"fmt"

	"credprobe/internal/platform/validator"
)

// Service es un protocolo habilitado en un target con su puerto.
type Service struct {
	Protocol Protocol `json:"protocol"`
	Port     int      `json:"port"`
}

// Addr retorna la dirección host:puerto del servicio en un target.
func (s Service) Addr(host string) string {
	return fmt.Sprintf("%s:%d", host, s.Port)
}

// Target representa un host bajo prueba con sus servicios habilitados.
// Inmutable una vez cargado: se construye al inicio y después solo se lee.
type Target struct {
	// Host es la IP o hostname del objetivo
	Host string `json:"host"`

	// Services son los protocolos habilitados, en orden de expansión
	Services []Service `json:"services"`
}

// NewTarget crea un target con los servicios dados.
func NewTarget(host string, services ...Service) Target {
	return Target{
		Host:     validator.NormalizeHost(host),
		Services: services,
	}
}

// Validate verifica que el target sea válido.
func (t Target) Validate() error {
	if t.Host == "" {
		return ErrEmptyHost
	}
	if !validator.IsHost(t.Host) {
		return fmt.Errorf("%w: %s", ErrInvalidHost, t.Host)
	}
	seen := make(map[Protocol]bool, len(t.Services))
	for _, svc := range t.Services {
		if !svc.Protocol.IsValid() {
			return fmt.Errorf("%w: %s", ErrInvalidProtocol, svc.Protocol)
		}
		if !validator.IsPort(svc.Port) {
			return fmt.Errorf("%w: %s port %d", ErrInvalidPort, svc.Protocol, svc.Port)
		}
		if seen[svc.Protocol] {
			return fmt.Errorf("%w: duplicate %s", ErrInvalidProtocol, svc.Protocol)
		}
		seen[svc.Protocol] = true
	}
	return nil
}

// String retorna una representación legible del target.
func (t Target) String() string {
	return fmt.Sprintf("Target{host=%s, services=%d}", t.Host, len(t.Services))
}
