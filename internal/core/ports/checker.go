// internal/core/ports/checker.go
package ports

import (
	"context"
	"time"

	"credprobe/internal/core/domain"
	"credprobe/internal/platform/logx"
)

// Checker es el port primario para los verificadores de credenciales.
// Una implementación por protocolo (ssh, ftp, mysql, postgres...).
//
// Contrato: Attempt realiza exactamente UN intento — conectar, autenticar
// y desconectar limpiamente — y clasifica el resultado. Nunca reintenta
// internamente (el retry es responsabilidad exclusiva del scheduler) y
// cierra toda conexión abierta en cada camino de salida, incluida la
// cancelación por timeout del contexto.
type Checker interface {
	// Name retorna el nombre único del checker (coincide con el protocolo)
	Name() string

	// Protocol retorna el protocolo que verifica
	Protocol() domain.Protocol

	// Attempt ejecuta un único intento de autenticación contra
	// host:puerto con la credencial dada y clasifica el resultado.
	Attempt(ctx context.Context, host string, port int, cred domain.Credential) domain.Outcome

	// Close libera recursos del checker (pools, sesiones, etc.)
	Close() error
}

// CheckerConfig contiene la configuración específica de un checker.
type CheckerConfig struct {
	// Enabled indica si el protocolo está habilitado
	Enabled bool

	// Port puerto del servicio en los targets
	Port int

	// Timeout tiempo máximo de un intento individual
	Timeout time.Duration

	// ProxyURL proxy SOCKS5 opcional para los intentos (vacío = directo)
	ProxyURL string

	// Custom configuración específica del protocolo (banner, database, etc.)
	Custom map[string]interface{}
}

// DefaultCheckerConfig retorna una configuración por defecto.
func DefaultCheckerConfig() CheckerConfig {
	return CheckerConfig{
		Enabled: false,
		Timeout: 10 * time.Second,
		Custom:  make(map[string]interface{}),
	}
}

// CheckerFactory es una función que crea una instancia de Checker.
type CheckerFactory func(cfg CheckerConfig, logger logx.Logger) (Checker, error)

// CheckerMetadata contiene metadatos sobre un checker registrado.
type CheckerMetadata struct {
	Name        string
	Description string
	Protocol    domain.Protocol
	DefaultPort int
}
