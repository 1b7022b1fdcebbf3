// internal/core/domain/trial.go
package domain

import (
	"fmt"
	"time"
)

// Outcome es el resultado clasificado de un único intento de
// autenticación. Producido por un checker; inmutable.
type Outcome struct {
	Class  OutcomeClass `json:"class"`
	Detail string       `json:"detail,omitempty"`
}

// Success construye un outcome exitoso.
func Success() Outcome {
	return Outcome{Class: OutcomeSuccess}
}

// AuthFailure construye un outcome de credencial rechazada.
func AuthFailure(detail string) Outcome {
	return Outcome{Class: OutcomeAuthFailure, Detail: detail}
}

// NetworkError construye un outcome de fallo de red.
func NetworkError(detail string) Outcome {
	return Outcome{Class: OutcomeNetworkError, Detail: detail}
}

// Timeout construye un outcome de intento expirado.
func Timeout(detail string) Outcome {
	return Outcome{Class: OutcomeTimeout, Detail: detail}
}

// TupleKey identifica la tupla (host, protocolo, username) a la que
// pertenece un trial. Es la unidad de short-circuit: una vez encontrada
// una credencial válida para la tupla, no se prueban más passwords.
type TupleKey struct {
	Host     string   `json:"host"`
	Protocol Protocol `json:"protocol"`
	Username string   `json:"username"`
}

// String retorna la representación host/protocolo/username.
func (k TupleKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Host, k.Protocol, k.Username)
}

// TrialDescriptor describe un intento concreto: target, servicio,
// credencial y número de intento (1-based; acotado por max_retries+1).
// Tipo valor: creado por el TrialQueue y consumido una sola vez por el
// scheduler, que lo recrea con Attempt incrementado para cada reintento.
type TrialDescriptor struct {
	Target     Target     `json:"target"`
	Service    Service    `json:"service"`
	Credential Credential `json:"credential"`
	Attempt    int        `json:"attempt"`
}

// Key retorna la tupla de short-circuit del descriptor.
func (d TrialDescriptor) Key() TupleKey {
	return TupleKey{
		Host:     d.Target.Host,
		Protocol: d.Service.Protocol,
		Username: d.Credential.Username,
	}
}

// Retry retorna una copia del descriptor con el número de intento
// incrementado.
func (d TrialDescriptor) Retry() TrialDescriptor {
	d.Attempt++
	return d
}

// TrialResult es el resultado terminal de un trial lógico: el descriptor
// (con el número del último intento), su outcome, la duración del último
// intento y el momento de finalización. Inmutable; se registra exactamente
// una vez en el agregador por trial.
type TrialResult struct {
	Descriptor TrialDescriptor `json:"descriptor"`
	Outcome    Outcome         `json:"outcome"`
	Duration   time.Duration   `json:"duration"`
	Timestamp  time.Time       `json:"timestamp"`
}
