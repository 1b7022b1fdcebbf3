// internal/core/domain/enums.go
package domain

// Protocol identifica el protocolo de autenticación de un servicio.
type Protocol string

const (
	ProtocolSSH      Protocol = "ssh"
	ProtocolFTP      Protocol = "ftp"
	ProtocolMySQL    Protocol = "mysql"
	ProtocolPostgres Protocol = "postgres"
)

// KnownProtocols lista los protocolos soportados en orden estable. El orden
// importa: define el orden de expansión de servicios en el TrialQueue.
var KnownProtocols = []Protocol{
	ProtocolSSH,
	ProtocolFTP,
	ProtocolMySQL,
	ProtocolPostgres,
}

// DefaultPort retorna el puerto por defecto del protocolo (0 si desconocido).
func (p Protocol) DefaultPort() int {
	switch p {
	case ProtocolSSH:
		return 22
	case ProtocolFTP:
		return 21
	case ProtocolMySQL:
		return 3306
	case ProtocolPostgres:
		return 5432
	default:
		return 0
	}
}

// IsValid verifica si el protocolo es conocido.
func (p Protocol) IsValid() bool {
	for _, k := range KnownProtocols {
		if p == k {
			return true
		}
	}
	return false
}

// String retorna la representación string del protocolo.
func (p Protocol) String() string {
	return string(p)
}

// OutcomeClass clasifica el resultado de un intento de autenticación.
type OutcomeClass string

const (
	// OutcomeSuccess el servicio aceptó la credencial
	OutcomeSuccess OutcomeClass = "success"

	// OutcomeAuthFailure el servicio rechazó la credencial (resultado
	// negativo definitivo, nunca se reintenta)
	OutcomeAuthFailure OutcomeClass = "auth_failure"

	// OutcomeNetworkError el intento no alcanzó la fase de autenticación
	OutcomeNetworkError OutcomeClass = "network_error"

	// OutcomeTimeout el intento no respondió dentro del timeout
	OutcomeTimeout OutcomeClass = "timeout"
)

// IsValid verifica si la clase de outcome es conocida.
func (c OutcomeClass) IsValid() bool {
	switch c {
	case OutcomeSuccess, OutcomeAuthFailure, OutcomeNetworkError, OutcomeTimeout:
		return true
	default:
		return false
	}
}

// Retryable indica si un intento con esta clase puede reintentarse.
// Solo fallos transitorios (red, timeout) lo son; un AuthFailure es un
// negativo definitivo y un Success es terminal.
func (c OutcomeClass) Retryable() bool {
	return c == OutcomeNetworkError || c == OutcomeTimeout
}

// Terminal indica si la clase cierra el trial sin más intentos.
func (c OutcomeClass) Terminal() bool {
	return c == OutcomeSuccess || c == OutcomeAuthFailure
}

// String retorna la representación string de la clase.
func (c OutcomeClass) String() string {
	return string(c)
}
