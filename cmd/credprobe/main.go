// cmd/credprobe/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"credprobe/internal/adapters/output"
	"credprobe/internal/core/domain"
	"credprobe/internal/core/ports"
	"credprobe/internal/core/usecases"
	"credprobe/internal/platform/config"
	"credprobe/internal/platform/errors"
	"credprobe/internal/platform/logx"
	"credprobe/internal/platform/rate"
	"credprobe/internal/platform/registry"
	"credprobe/internal/platform/resilience"
	"credprobe/internal/platform/ui"
	"credprobe/internal/platform/wordlist"

	// Import checkers for auto-registration via init()
	_ "credprobe/internal/checkers/ftp"
	_ "credprobe/internal/checkers/mysql"
	_ "credprobe/internal/checkers/postgres"
	_ "credprobe/internal/checkers/ssh"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// 1. Load centralized config (defaults -> YAML -> ENV -> flags)
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			config.PrintHelp()
		}
		fmt.Fprintf(os.Stderr, "Error: configuration load failed: %v\n", err)
		os.Exit(2)
	}

	if cfg.PrintVersion {
		config.PrintVersion(version, commit, date)
	}

	// 2. Shared logger
	logger := logx.New()
	if cfg.LogLevel != "" {
		logger.SetLevel(logx.ParseLevel(cfg.LogLevel))
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Try: credprobe -h for help")
		os.Exit(2)
	}

	logger.Info("credprobe starting",
		"version", version,
		"commit", commit,
		"workers", cfg.Workers,
		"timeout_s", cfg.TimeoutS,
		"max_retries", cfg.MaxRetries,
		"short_circuit", cfg.ShortCircuit,
	)

	// 3. Load input lists
	hosts, usernames, passwords, err := loadInputs(cfg)
	if err != nil {
		logger.Err(err, "phase", "input-load")
		os.Exit(2)
	}

	logger.Info("inputs loaded",
		"hosts", len(hosts),
		"usernames", len(usernames),
		"passwords", len(passwords),
	)

	// 4. Build targets from enabled protocols
	targets, err := buildTargets(cfg, hosts)
	if err != nil {
		logger.Err(err, "phase", "target-build")
		os.Exit(2)
	}

	// 5. Build checkers from registry
	checkers, err := registry.Global().Build(cfg.Protocols, logger)
	if err != nil {
		logger.Err(err, "phase", "checker-build")
		os.Exit(2)
	}

	// 6. Engine components
	queue, err := usecases.NewTrialQueue(targets, usernames, passwords)
	if err != nil {
		logger.Err(err, "phase", "queue-build")
		os.Exit(2)
	}

	agg := usecases.NewResultAggregator(logger)

	var limiter *rate.Limiter
	if cfg.Rate.AttemptsPerSec > 0 {
		limiter = rate.New(cfg.Rate.AttemptsPerSec, cfg.Rate.Burst)
		logger.Info("rate limit active", "attempts_per_sec", cfg.Rate.AttemptsPerSec)
	}

	var breakers *resilience.BreakerSet
	if cfg.Resilience.CircuitBreakerEnabled {
		breakers = resilience.NewBreakerSet(
			cfg.Resilience.CircuitBreakerThreshold,
			cfg.Resilience.CircuitBreakerCooldown,
			cfg.Resilience.CircuitBreakerHalfOpenMax,
		)
	}

	sched, err := usecases.NewScheduler(usecases.SchedulerConfig{
		Workers:           cfg.Workers,
		AttemptTimeout:    cfg.Timeout(),
		MaxRetries:        cfg.MaxRetries,
		ShortCircuit:      cfg.ShortCircuit,
		BackoffBase:       cfg.Resilience.BackoffBase,
		BackoffMultiplier: cfg.Resilience.BackoffMultiplier,
		BackoffMax:        cfg.Resilience.BackoffMax,
		Limiter:           limiter,
		Breakers:          breakers,
		Logger:            logger,
	}, queue, agg, checkers)
	if err != nil {
		logger.Err(err, "phase", "scheduler-build")
		os.Exit(2)
	}

	// 7. Presenter: visual progress unless debug logging would fight it
	presenter := buildPresenter(cfg)
	defer presenter.Close()

	agg.SetObserver(func(res domain.TrialResult) {
		if res.Outcome.Class == domain.OutcomeSuccess {
			presenter.Hit(res)
		}
		presenter.Progress(agg.Count(), queue.Skipped())
	})

	presenter.Start(ui.AuditInfo{
		Targets:        len(targets),
		Protocols:      cfg.EnabledProtocols(),
		Usernames:      len(usernames),
		Passwords:      len(passwords),
		TotalTrials:    queue.Size(),
		Workers:        cfg.Workers,
		TimeoutSeconds: cfg.TimeoutS,
		MaxRetries:     cfg.MaxRetries,
		ShortCircuit:   cfg.ShortCircuit,
		ProxyURL:       cfg.ProxyURL,
	})

	// 8. Context with signal cancellation for clean shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := sched.Run(ctx)
	if runErr != nil {
		presenter.Warning(fmt.Sprintf("audit interrupted: %v", runErr))
		logger.Err(runErr, "phase", "run")
		// Continue to emit partial results
	}

	// 9. Snapshot and outputs
	result := agg.Snapshot()
	presenter.Finish(result.Summary)

	if err := writeOutputs(cfg, &result); err != nil {
		logger.Err(err, "phase", "output")
		os.Exit(1)
	}

	logger.Info("credprobe finished",
		"elapsed_ms", result.Summary.Duration.Milliseconds(),
		"trials", result.Summary.Total,
		"hits", result.Summary.Success,
	)

	if runErr != nil {
		os.Exit(1)
	}
}

// loadInputs resuelve las tres listas de entrada: hosts, usernames y
// passwords. Host y usuario admiten valor literal o fichero; el
// diccionario de passwords siempre es fichero.
func loadInputs(cfg config.Config) (hosts, usernames, passwords []string, err error) {
	hostSource := cfg.Target
	if hostSource == "" {
		hostSource = cfg.TargetFile
	}
	hosts, err = wordlist.LoadOrLiteral(hostSource)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "failed to load targets")
	}
	hosts = wordlist.Dedupe(hosts)

	userSource := cfg.User
	if userSource == "" {
		userSource = cfg.UserFile
	}
	usernames, err = wordlist.LoadOrLiteral(userSource)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "failed to load usernames")
	}
	usernames = wordlist.Dedupe(usernames)

	passwords, err = wordlist.LoadPasswords(cfg.PasswordFile)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "failed to load password dictionary")
	}

	if len(hosts) == 0 {
		return nil, nil, nil, domain.ErrNoTargets
	}
	if len(usernames) == 0 {
		return nil, nil, nil, domain.ErrNoUsernames
	}
	if len(passwords) == 0 {
		return nil, nil, nil, domain.ErrNoPasswords
	}

	return hosts, usernames, passwords, nil
}

// buildTargets construye y valida un target por host con los servicios
// de los protocolos habilitados.
func buildTargets(cfg config.Config, hosts []string) ([]domain.Target, error) {
	services := make([]domain.Service, 0, len(cfg.Protocols))
	for _, protocol := range cfg.EnabledProtocols() {
		services = append(services, domain.Service{
			Protocol: protocol,
			Port:     cfg.Protocols[protocol].Port,
		})
	}
	if len(services) == 0 {
		return nil, domain.ErrNoCheckers
	}

	targets := make([]domain.Target, 0, len(hosts))
	for _, host := range hosts {
		target := domain.NewTarget(host, services...)
		if err := target.Validate(); err != nil {
			return nil, errors.Wrapf(err, "invalid target %q", host)
		}
		targets = append(targets, target)
	}
	return targets, nil
}

// buildPresenter decide la UI: con log-level debug los logs y la barra
// de progreso pelearían por la terminal, así que se desactiva la UI.
func buildPresenter(cfg config.Config) ui.Presenter {
	if logx.ParseLevel(cfg.LogLevel) == logx.LevelDebug {
		return ui.NewNoopPresenter()
	}
	return ui.NewPTermPresenter()
}

// writeOutputs decide y ejecuta las salidas según configuración.
// Aislado de main para facilitar añadir formatos nuevos.
func writeOutputs(cfg config.Config, result *domain.AuditResult) error {
	exporters := []ports.Exporter{
		// JSON siempre se genera: es la salida canónica
		output.NewJSONExporter(cfg.ReportDir),
	}
	if !cfg.Outputs.HTMLDisabled {
		exporters = append(exporters, output.NewHTMLExporter(cfg.ReportDir))
	}
	if !cfg.Outputs.TableDisabled {
		exporters = append(exporters, output.NewTableExporter())
	}

	for _, exporter := range exporters {
		if err := exporter.Export(result); err != nil {
			return errors.Wrapf(err, "%s output", exporter.Name())
		}
	}
	return nil
}
