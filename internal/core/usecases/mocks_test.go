// internal/core/usecases/mocks_test.go
package usecases

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"credprobe/internal/core/domain"
)

// stubChecker es un checker guionizado para tests: decide el outcome de
// cada intento con una función inyectada y lleva contadores de llamadas
// y de concurrencia observada.
type stubChecker struct {
	protocol domain.Protocol

	// script decide el outcome; call es 1-based por credencial
	script func(host string, cred domain.Credential, call int) domain.Outcome

	// delay simula la latencia del intento. Si blocking es true, la
	// espera ignora el contexto (simula un checker colgado).
	delay    time.Duration
	blocking bool

	mu       sync.Mutex
	calls    int
	perCred  map[string]int
	current  int32
	maxSeen  int32
	lastHost string
}

func newStubChecker(protocol domain.Protocol, script func(host string, cred domain.Credential, call int) domain.Outcome) *stubChecker {
	return &stubChecker{
		protocol: protocol,
		script:   script,
		perCred:  make(map[string]int),
	}
}

func (c *stubChecker) Name() string              { return "stub-" + string(c.protocol) }
func (c *stubChecker) Protocol() domain.Protocol { return c.protocol }
func (c *stubChecker) Close() error              { return nil }

func (c *stubChecker) Attempt(ctx context.Context, host string, port int, cred domain.Credential) domain.Outcome {
	cur := atomic.AddInt32(&c.current, 1)
	for {
		max := atomic.LoadInt32(&c.maxSeen)
		if cur <= max || atomic.CompareAndSwapInt32(&c.maxSeen, max, cur) {
			break
		}
	}
	defer atomic.AddInt32(&c.current, -1)

	if c.delay > 0 {
		if c.blocking {
			time.Sleep(c.delay)
		} else {
			select {
			case <-ctx.Done():
				return domain.Timeout("stub canceled")
			case <-time.After(c.delay):
			}
		}
	}

	c.mu.Lock()
	c.calls++
	key := cred.Username + ":" + cred.Password
	c.perCred[key]++
	call := c.perCred[key]
	c.lastHost = host
	c.mu.Unlock()

	if c.script == nil {
		return domain.AuthFailure("stub default")
	}
	return c.script(host, cred, call)
}

func (c *stubChecker) totalCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *stubChecker) callsFor(username, password string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.perCred[username+":"+password]
}

func (c *stubChecker) maxConcurrent() int {
	return int(atomic.LoadInt32(&c.maxSeen))
}

// helpers de construcción

func singleTarget(host string, protocol domain.Protocol, port int) []domain.Target {
	return []domain.Target{
		domain.NewTarget(host, domain.Service{Protocol: protocol, Port: port}),
	}
}

func alwaysAuthFailure(host string, cred domain.Credential, call int) domain.Outcome {
	return domain.AuthFailure("invalid credentials")
}

func successOnPassword(password string) func(string, domain.Credential, int) domain.Outcome {
	return func(host string, cred domain.Credential, call int) domain.Outcome {
		if cred.Password == password {
			return domain.Success()
		}
		return domain.AuthFailure("invalid credentials")
	}
}

func alwaysNetworkError(host string, cred domain.Credential, call int) domain.Outcome {
	return domain.NetworkError("connection refused")
}
