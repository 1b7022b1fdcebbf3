// internal/core/usecases/scheduler.go
package usecases

import (
	"context"
	"math"
	"sync"
	"time"

	"credprobe/internal/core/domain"
	"credprobe/internal/core/ports"
	"credprobe/internal/platform/errors"
	"credprobe/internal/platform/logx"
	"credprobe/internal/platform/rate"
	"credprobe/internal/platform/resilience"
)

// SchedulerConfig configura el scheduler de trials.
type SchedulerConfig struct {
	// Workers es la concurrencia máxima de intentos en vuelo.
	Workers int

	// AttemptTimeout acota cada intento individual.
	AttemptTimeout time.Duration

	// MaxRetries es el número máximo de reintentos por fallo transitorio.
	// El total de intentos por trial es MaxRetries+1.
	MaxRetries int

	// ShortCircuit corta la tupla (host, protocolo, username) al primer
	// éxito.
	ShortCircuit bool

	// Backoff exponencial entre reintentos.
	BackoffBase       time.Duration
	BackoffMultiplier float64
	BackoffMax        time.Duration

	// Limiter opcional: ritmo global de intentos.
	Limiter *rate.Limiter

	// Breakers opcional: circuit breaker por host.
	Breakers *resilience.BreakerSet

	Logger logx.Logger
}

// Scheduler consume descriptores del TrialQueue, los despacha al checker
// del protocolo con concurrencia acotada y registra exactamente un
// resultado terminal por trial en el agregador.
//
// Garantía de orden con short-circuit: la supresión de la tupla ocurre
// ANTES de registrar el éxito, de modo que ningún trial de la tupla
// puede salir de la cola después de que el éxito sea visible.
type Scheduler struct {
	cfg      SchedulerConfig
	queue    *TrialQueue
	agg      *ResultAggregator
	checkers map[domain.Protocol]ports.Checker
	logger   logx.Logger

	mu        sync.Mutex
	succeeded map[domain.TupleKey]bool
}

// NewScheduler crea el scheduler validando su configuración. Cualquier
// parámetro inválido es un error fatal de arranque.
func NewScheduler(cfg SchedulerConfig, queue *TrialQueue, agg *ResultAggregator, checkers map[domain.Protocol]ports.Checker) (*Scheduler, error) {
	if cfg.Workers < 1 {
		return nil, errors.Wrapf(domain.ErrInvalidWorkers, "got %d", cfg.Workers)
	}
	if cfg.AttemptTimeout <= 0 {
		return nil, errors.Wrapf(domain.ErrInvalidTimeout, "got %v", cfg.AttemptTimeout)
	}
	if cfg.MaxRetries < 0 {
		return nil, errors.Wrapf(domain.ErrInvalidRetries, "got %d", cfg.MaxRetries)
	}
	if len(checkers) == 0 {
		return nil, domain.ErrNoCheckers
	}
	if queue == nil {
		return nil, errors.New("queue cannot be nil")
	}
	if agg == nil {
		return nil, errors.New("aggregator cannot be nil")
	}

	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 500 * time.Millisecond
	}
	if cfg.BackoffMultiplier < 1.0 {
		cfg.BackoffMultiplier = 2.0
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logx.New()
	}

	return &Scheduler{
		cfg:       cfg,
		queue:     queue,
		agg:       agg,
		checkers:  checkers,
		logger:    cfg.Logger.With("component", "scheduler"),
		succeeded: make(map[domain.TupleKey]bool),
	}, nil
}

// Run consume la cola hasta agotarla o hasta que el contexto se cancele.
// Retorna ErrAuditCanceled si la cancelación interrumpió la auditoría.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started",
		"workers", s.cfg.Workers,
		"timeout", s.cfg.AttemptTimeout,
		"max_retries", s.cfg.MaxRetries,
		"short_circuit", s.cfg.ShortCircuit,
		"queue_size", s.queue.Size(),
	)

	var wg sync.WaitGroup
	for i := 0; i < s.cfg.Workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			s.worker(ctx, id)
		}(i)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		s.logger.Warn("audit interrupted", "reason", err.Error())
		return errors.Wrap(domain.ErrAuditCanceled, err.Error())
	}

	s.logger.Info("scheduler finished",
		"served", s.queue.Served(),
		"skipped", s.queue.Skipped(),
		"recorded", s.agg.Count(),
	)
	return nil
}

// worker extrae descriptores de la cola y los procesa hasta agotarla.
func (s *Scheduler) worker(ctx context.Context, id int) {
	logger := s.logger.With("worker_id", id)
	logger.Debug("worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Debug("worker stopped", "reason", ctx.Err().Error())
			return
		default:
		}

		desc, ok := s.queue.Next()
		if !ok {
			logger.Debug("queue drained, worker stopping")
			return
		}

		s.runTrial(ctx, logger, desc)
	}
}

// runTrial ejecuta un trial lógico completo: el intento inicial más los
// reintentos por fallo transitorio, y registra su único resultado
// terminal.
func (s *Scheduler) runTrial(ctx context.Context, logger logx.Logger, desc domain.TrialDescriptor) {
	key := desc.Key()

	checker, ok := s.checkers[desc.Service.Protocol]
	if !ok {
		// sin checker para el protocolo del servicio: negativo de red
		// terminal, un trial nunca desaparece sin resultado registrado
		logger.Warn("no checker for protocol", "protocol", desc.Service.Protocol)
		s.record(logger, desc, domain.NetworkError("no checker for protocol "+string(desc.Service.Protocol)), 0)
		return
	}

	for {
		// Un éxito previo de la tupla puede haberse registrado mientras
		// este trial esperaba; descartarlo sin registrar.
		if s.tupleSucceeded(key) {
			logger.Debug("dropping stale trial for succeeded tuple", "tuple", key.String())
			return
		}

		if s.cfg.Limiter != nil {
			if err := s.cfg.Limiter.Wait(ctx); err != nil {
				return
			}
		}

		var breaker *resilience.Breaker
		if s.cfg.Breakers != nil {
			breaker = s.cfg.Breakers.For(desc.Target.Host)
			if !breaker.Allow() {
				// host en enfriamiento: negativo de red definitivo, sin
				// reintento (reintentar solo golpearía el breaker de nuevo)
				s.record(logger, desc, domain.NetworkError(errors.ErrBreakerOpen.Error()), 0)
				return
			}
		}

		outcome, duration := s.attempt(ctx, checker, desc)

		if breaker != nil {
			// Un AuthFailure también prueba que el host responde: solo
			// los fallos de red y timeouts cuentan contra el breaker.
			if outcome.Class.Retryable() {
				breaker.RecordFailure()
			} else {
				breaker.RecordSuccess()
			}
		}

		if outcome.Class.Terminal() {
			if outcome.Class == domain.OutcomeSuccess {
				s.recordSuccess(logger, desc, outcome, duration)
			} else {
				s.record(logger, desc, outcome, duration)
			}
			return
		}

		// fallo transitorio
		if desc.Attempt > s.cfg.MaxRetries {
			s.record(logger, desc, outcome, duration)
			return
		}

		logger.Debug("retrying after transient failure",
			"tuple", key.String(),
			"attempt", desc.Attempt,
			"class", outcome.Class,
			"detail", outcome.Detail,
		)

		if !s.backoff(ctx, desc.Attempt) {
			return
		}
		desc = desc.Retry()
	}
}

// attempt ejecuta un único intento bajo el timeout configurado. El
// checker corre en su propia goroutine: si se cuelga más allá del
// deadline, el intento se clasifica como timeout sin esperar al checker.
func (s *Scheduler) attempt(ctx context.Context, checker ports.Checker, desc domain.TrialDescriptor) (domain.Outcome, time.Duration) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.AttemptTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan domain.Outcome, 1)

	go func() {
		done <- checker.Attempt(attemptCtx, desc.Target.Host, desc.Service.Port, desc.Credential)
	}()

	select {
	case outcome := <-done:
		return outcome, time.Since(start)
	case <-attemptCtx.Done():
		duration := time.Since(start)
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return domain.Timeout("attempt exceeded timeout"), duration
		}
		return domain.NetworkError("attempt canceled"), duration
	}
}

// recordSuccess registra un éxito respetando la garantía de orden: con
// short-circuit activo la tupla se suprime en la cola ANTES de que el
// resultado sea visible en el agregador. La supresión, la marca de
// tupla resuelta y el append al agregador ocurren bajo el mismo lock,
// de modo que ningún negativo rezagado puede registrarse después.
func (s *Scheduler) recordSuccess(logger logx.Logger, desc domain.TrialDescriptor, outcome domain.Outcome, duration time.Duration) {
	key := desc.Key()

	s.mu.Lock()
	if s.succeeded[key] {
		// otro worker ganó la carrera por esta tupla
		s.mu.Unlock()
		logger.Debug("dropping duplicate success for tuple", "tuple", key.String())
		return
	}
	if s.cfg.ShortCircuit {
		s.queue.Suppress(key)
		s.succeeded[key] = true
	}
	s.agg.Record(domain.TrialResult{
		Descriptor: desc,
		Outcome:    outcome,
		Duration:   duration,
		Timestamp:  time.Now(),
	})
	s.mu.Unlock()

	logger.Info("credential found",
		"host", desc.Target.Host,
		"protocol", desc.Service.Protocol,
		"username", desc.Credential.Username,
		"password", logx.Mask(desc.Credential.Password),
		"attempt", desc.Attempt,
	)
}

// record registra el resultado terminal del trial en el agregador. La
// verificación de tupla resuelta y el append son atómicos bajo s.mu:
// sin esa atomicidad un negativo en vuelo podría pasar la verificación
// y registrarse después del éxito de su tupla.
func (s *Scheduler) record(logger logx.Logger, desc domain.TrialDescriptor, outcome domain.Outcome, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if outcome.Class != domain.OutcomeSuccess && s.succeeded[desc.Key()] {
		// resultado tardío de una tupla ya resuelta: descartarlo para no
		// ensuciar el summary con negativos irrelevantes
		logger.Debug("dropping late result for succeeded tuple", "tuple", desc.Key().String())
		return
	}

	s.agg.Record(domain.TrialResult{
		Descriptor: desc,
		Outcome:    outcome,
		Duration:   duration,
		Timestamp:  time.Now(),
	})
}

// tupleSucceeded verifica si la tupla ya tiene un éxito registrado.
func (s *Scheduler) tupleSucceeded(key domain.TupleKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.succeeded[key]
}

// backoff espera el backoff exponencial del intento dado. Retorna false
// si el contexto se canceló durante la espera.
func (s *Scheduler) backoff(ctx context.Context, attempt int) bool {
	d := time.Duration(float64(s.cfg.BackoffBase) * math.Pow(s.cfg.BackoffMultiplier, float64(attempt-1)))
	if d > s.cfg.BackoffMax {
		d = s.cfg.BackoffMax
	}

	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
