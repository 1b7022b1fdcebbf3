// internal/core/usecases/queue.go
package usecases

import (
	"sync"

	"credprobe/internal/core/domain"
)

// TrialQueue genera los descriptores de trial como producto cartesiano
// targets × services × usernames × passwords, en orden estable y bajo
// demanda: nunca materializa la expansión completa en memoria.
//
// El orden de expansión es determinista: targets en orden de carga,
// services en el orden del target, usernames en orden de carga y
// passwords en orden de diccionario (la posición más probable primero).
type TrialQueue struct {
	mu sync.Mutex

	targets   []domain.Target
	usernames []string
	passwords []string

	// cursor de iteración
	ti, si, ui, pi int

	suppressed map[domain.TupleKey]bool
	served     int
	skipped    int
}

// NewTrialQueue crea la cola de trials. Las listas vacías son errores
// fatales de arranque: no hay nada que auditar.
func NewTrialQueue(targets []domain.Target, usernames, passwords []string) (*TrialQueue, error) {
	if len(targets) == 0 {
		return nil, domain.ErrNoTargets
	}
	if len(usernames) == 0 {
		return nil, domain.ErrNoUsernames
	}
	if len(passwords) == 0 {
		return nil, domain.ErrNoPasswords
	}

	return &TrialQueue{
		targets:    targets,
		usernames:  usernames,
		passwords:  passwords,
		suppressed: make(map[domain.TupleKey]bool),
	}, nil
}

// Next retorna el siguiente descriptor pendiente y true, o el descriptor
// cero y false cuando la cola está agotada. Los trials de tuplas
// suprimidas se saltan sin consumirse. Seguro para llamarse desde
// múltiples workers.
func (q *TrialQueue) Next() (domain.TrialDescriptor, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		if q.ti >= len(q.targets) {
			return domain.TrialDescriptor{}, false
		}
		target := q.targets[q.ti]

		if q.si >= len(target.Services) {
			q.ti++
			q.si, q.ui, q.pi = 0, 0, 0
			continue
		}
		service := target.Services[q.si]

		if q.ui >= len(q.usernames) {
			q.si++
			q.ui, q.pi = 0, 0
			continue
		}
		username := q.usernames[q.ui]

		key := domain.TupleKey{Host: target.Host, Protocol: service.Protocol, Username: username}
		if q.suppressed[key] {
			// tupla cerrada: saltar los passwords restantes sin contarlos
			q.skipped += len(q.passwords) - q.pi
			q.ui++
			q.pi = 0
			continue
		}

		if q.pi >= len(q.passwords) {
			q.ui++
			q.pi = 0
			continue
		}

		desc := domain.TrialDescriptor{
			Target:     target,
			Service:    service,
			Credential: domain.Credential{Username: username, Password: q.passwords[q.pi]},
			Attempt:    1,
		}
		q.pi++
		q.served++
		return desc, true
	}
}

// Suppress marca una tupla (host, protocolo, username) como cerrada.
// Los trials pendientes de la tupla no volverán a salir de Next.
func (q *TrialQueue) Suppress(key domain.TupleKey) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.suppressed[key] = true
}

// IsSuppressed verifica si una tupla está suprimida.
func (q *TrialQueue) IsSuppressed(key domain.TupleKey) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.suppressed[key]
}

// Size retorna el tamaño total de la expansión sin suprimir.
func (q *TrialQueue) Size() int {
	services := 0
	for _, t := range q.targets {
		services += len(t.Services)
	}
	return services * len(q.usernames) * len(q.passwords)
}

// Served retorna cuántos descriptores se han entregado.
func (q *TrialQueue) Served() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.served
}

// Skipped retorna cuántos trials se descartaron por supresión.
func (q *TrialQueue) Skipped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.skipped
}
