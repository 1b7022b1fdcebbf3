// internal/platform/resilience/breaker.go
package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrBreakerOpen = errors.New("circuit breaker is open")

// State representa el estado del circuit breaker.
type State int

const (
	StateClosed   State = iota // Normal operation
	StateOpen                  // Failing, rejecting attempts
	StateHalfOpen              // Testing if host recovered
)

// Breaker implementa el patrón Circuit Breaker por host: un host cuyos
// intentos fallan repetidamente a nivel de red deja de recibir intentos
// durante un periodo de enfriamiento en vez de seguir siendo golpeado.
type Breaker struct {
	mu              sync.Mutex
	state           State
	failureCount    int
	successCount    int
	lastFailureTime time.Time

	// Config
	failureThreshold int           // Failures to open circuit
	cooldown         time.Duration // Time to wait before half-open
	halfOpenMax      int           // Max attempts in half-open state
}

// NewBreaker crea un nuevo circuit breaker.
func NewBreaker(failureThreshold int, cooldown time.Duration, halfOpenMax int) *Breaker {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	if cooldown <= 0 {
		cooldown = 60 * time.Second
	}
	if halfOpenMax <= 0 {
		halfOpenMax = 3
	}

	return &Breaker{
		state:            StateClosed,
		failureThreshold: failureThreshold,
		cooldown:         cooldown,
		halfOpenMax:      halfOpenMax,
	}
}

// Allow verifica si un intento puede pasar.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true

	case StateOpen:
		if time.Since(b.lastFailureTime) > b.cooldown {
			b.state = StateHalfOpen
			b.successCount = 0
			b.failureCount = 0
			return true
		}
		return false

	case StateHalfOpen:
		// Allow limited attempts to test recovery
		return b.successCount+b.failureCount < b.halfOpenMax

	default:
		return false
	}
}

// RecordSuccess registra un intento que alcanzó el servicio (haya o no
// autenticado: un AuthFailure también prueba que el host responde).
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failureCount = 0

	case StateHalfOpen:
		b.successCount++
		if b.successCount >= b.halfOpenMax {
			b.state = StateClosed
			b.failureCount = 0
			b.successCount = 0
		}
	}
}

// RecordFailure registra un fallo de red contra el host.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastFailureTime = time.Now()
	b.failureCount++

	switch b.state {
	case StateClosed:
		if b.failureCount >= b.failureThreshold {
			b.state = StateOpen
		}

	case StateHalfOpen:
		// Failure in half-open, re-open circuit immediately
		b.state = StateOpen
		b.successCount = 0
		b.failureCount = 0
	}
}

// State retorna el estado actual del circuit breaker.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// String retorna una representación legible del estado.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerSet mantiene un breaker por host, creado bajo demanda con una
// configuración común. Consultado por el scheduler antes de cada dispatch.
type BreakerSet struct {
	mu       sync.Mutex
	breakers map[string]*Breaker

	failureThreshold int
	cooldown         time.Duration
	halfOpenMax      int
}

// NewBreakerSet crea un conjunto de breakers con configuración compartida.
func NewBreakerSet(failureThreshold int, cooldown time.Duration, halfOpenMax int) *BreakerSet {
	return &BreakerSet{
		breakers:         make(map[string]*Breaker),
		failureThreshold: failureThreshold,
		cooldown:         cooldown,
		halfOpenMax:      halfOpenMax,
	}
}

// For retorna el breaker del host, creándolo si no existe.
func (s *BreakerSet) For(host string) *Breaker {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.breakers[host]
	if !ok {
		b = NewBreaker(s.failureThreshold, s.cooldown, s.halfOpenMax)
		s.breakers[host] = b
	}
	return b
}
