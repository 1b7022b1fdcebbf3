// internal/platform/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"credprobe/internal/core/domain"
	"credprobe/internal/core/ports"
	"credprobe/internal/platform/errors"
)

type Config struct {
	// Inputs
	TargetFile   string
	Target       string
	UserFile     string
	User         string
	PasswordFile string

	ConfigFile string

	// Scheduling
	Workers      int
	TimeoutS     int // segundos por intento
	MaxRetries   int
	ShortCircuit bool

	// IO
	ReportDir    string
	LogLevel     string
	ProxyURL     string
	PrintVersion bool

	// Protocols: mapa dinámico de configuraciones por checker
	// Key = protocolo (ej: "ssh", "ftp", "mysql", "postgres")
	Protocols map[domain.Protocol]ports.CheckerConfig

	// Outputs
	Outputs Outputs

	// Rate
	Rate Rate

	// Resilience
	Resilience Resilience
}

type Outputs struct {
	TableDisabled bool
	HTMLDisabled  bool
	// JSON output is ALWAYS generated
}

type Rate struct {
	AttemptsPerSec float64 // 0 = sin límite
	Burst          int
}

type Resilience struct {
	// Retry configuration
	BackoffBase       time.Duration // Base backoff duration (e.g., 500ms)
	BackoffMultiplier float64       // Multiplier for exponential backoff (e.g., 2.0)
	BackoffMax        time.Duration // Cap for a single backoff sleep

	// Circuit Breaker configuration
	CircuitBreakerEnabled     bool
	CircuitBreakerThreshold   int           // Consecutive network failures before opening circuit
	CircuitBreakerCooldown    time.Duration // How long circuit stays open per host
	CircuitBreakerHalfOpenMax int           // Max probes in half-open state
}

// DefaultConfig retorna una configuración por defecto.
func DefaultConfig() Config {
	return Config{
		Workers:      8,
		TimeoutS:     5,
		MaxRetries:   2,
		ShortCircuit: true,

		ReportDir: "credprobe_out",
		LogLevel:  "",
		ProxyURL:  "",

		Protocols: map[domain.Protocol]ports.CheckerConfig{
			domain.ProtocolSSH: {
				Enabled: true,
				Port:    22,
				Timeout: 5 * time.Second,
				Custom:  make(map[string]interface{}),
			},
			domain.ProtocolFTP: {
				Enabled: true,
				Port:    21,
				Timeout: 5 * time.Second,
				Custom:  make(map[string]interface{}),
			},
			domain.ProtocolMySQL: {
				Enabled: true,
				Port:    3306,
				Timeout: 5 * time.Second,
				Custom:  make(map[string]interface{}),
			},
			domain.ProtocolPostgres: {
				Enabled: true,
				Port:    5432,
				Timeout: 5 * time.Second,
				Custom:  make(map[string]interface{}),
			},
		},

		Outputs: Outputs{
			TableDisabled: false,
			HTMLDisabled:  false,
		},

		Rate: Rate{
			AttemptsPerSec: 0,
			Burst:          1,
		},

		Resilience: Resilience{
			BackoffBase:               500 * time.Millisecond,
			BackoffMultiplier:         2.0,
			BackoffMax:                10 * time.Second,
			CircuitBreakerEnabled:     true,
			CircuitBreakerThreshold:   5,
			CircuitBreakerCooldown:    30 * time.Second,
			CircuitBreakerHalfOpenMax: 2,
		},
	}
}

// fileConfig es el esquema YAML del fichero de configuración.
type fileConfig struct {
	TargetFile   string  `yaml:"target_file"`
	UserFile     string  `yaml:"user_file"`
	PasswordFile string  `yaml:"password_file"`
	Workers      int     `yaml:"max_workers"`
	Timeout      int     `yaml:"timeout"`
	MaxRetries   *int    `yaml:"max_retries"`
	ShortCircuit *bool   `yaml:"short_circuit"`
	ReportDir    string  `yaml:"report_dir"`
	LogLevel     string  `yaml:"log_level"`
	ProxyURL     string  `yaml:"proxy_url"`
	RateLimit    float64 `yaml:"attempts_per_sec"`

	Protocols map[string]fileProtocol `yaml:"protocols"`

	Outputs struct {
		NoTable bool `yaml:"no_table"`
		NoHTML  bool `yaml:"no_html"`
	} `yaml:"outputs"`

	Resilience struct {
		BackoffBaseMS     int     `yaml:"backoff_base_ms"`
		BackoffMultiplier float64 `yaml:"backoff_multiplier"`
		BreakerEnabled    *bool   `yaml:"breaker_enabled"`
		BreakerThreshold  int     `yaml:"breaker_threshold"`
		BreakerCooldownS  int     `yaml:"breaker_cooldown"`
	} `yaml:"resilience"`
}

type fileProtocol struct {
	Enabled *bool                  `yaml:"enabled"`
	Port    int                    `yaml:"port"`
	Timeout int                    `yaml:"timeout"`
	Options map[string]interface{} `yaml:"options"`
}

// Load inicializa la configuración: defaults -> fichero YAML -> ENV -> FLAGS
// (flags tienen prioridad máxima).
func Load(args []string) (Config, error) {
	cfg := DefaultConfig()

	fs := newFlagSet(&cfg)
	if err := fs.Parse(args); err != nil {
		return cfg, errors.Wrap(err, "failed to parse flags")
	}

	// Los valores de flags ya están en cfg; preservarlos para re-aplicar
	// tras las capas de fichero y ENV.
	flagged := cfg

	base := DefaultConfig()

	configFile := flagged.ConfigFile
	if configFile == "" {
		configFile = getenv("CREDPROBE_CONFIG", "")
	}
	if configFile != "" {
		if err := loadFromFile(&base, configFile); err != nil {
			return base, err
		}
	}

	loadFromEnv(&base)

	applyFlags(fs, &base, &flagged)

	normalize(&base)

	return base, nil
}

// loadFromFile aplica el fichero YAML sobre la configuración.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(domain.ErrConfigLoadFailed, "%s: %v", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return errors.Wrapf(domain.ErrConfigParseFailed, "%s: %v", path, err)
	}

	if fc.TargetFile != "" {
		cfg.TargetFile = fc.TargetFile
	}
	if fc.UserFile != "" {
		cfg.UserFile = fc.UserFile
	}
	if fc.PasswordFile != "" {
		cfg.PasswordFile = fc.PasswordFile
	}
	if fc.Workers > 0 {
		cfg.Workers = fc.Workers
	}
	if fc.Timeout > 0 {
		cfg.TimeoutS = fc.Timeout
	}
	if fc.MaxRetries != nil && *fc.MaxRetries >= 0 {
		cfg.MaxRetries = *fc.MaxRetries
	}
	if fc.ShortCircuit != nil {
		cfg.ShortCircuit = *fc.ShortCircuit
	}
	if fc.ReportDir != "" {
		cfg.ReportDir = fc.ReportDir
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.ProxyURL != "" {
		cfg.ProxyURL = fc.ProxyURL
	}
	if fc.RateLimit > 0 {
		cfg.Rate.AttemptsPerSec = fc.RateLimit
	}

	for name, fp := range fc.Protocols {
		protocol := domain.Protocol(strings.ToLower(strings.TrimSpace(name)))
		pcfg, ok := cfg.Protocols[protocol]
		if !ok {
			return errors.Wrapf(domain.ErrInvalidProtocol, "unknown protocol %q in %s", name, path)
		}
		if fp.Enabled != nil {
			pcfg.Enabled = *fp.Enabled
		}
		if fp.Port > 0 {
			pcfg.Port = fp.Port
		}
		if fp.Timeout > 0 {
			pcfg.Timeout = time.Duration(fp.Timeout) * time.Second
		}
		if pcfg.Custom == nil {
			pcfg.Custom = make(map[string]interface{})
		}
		for k, v := range fp.Options {
			pcfg.Custom[k] = v
		}
		cfg.Protocols[protocol] = pcfg
	}

	if fc.Outputs.NoTable {
		cfg.Outputs.TableDisabled = true
	}
	if fc.Outputs.NoHTML {
		cfg.Outputs.HTMLDisabled = true
	}

	if fc.Resilience.BackoffBaseMS > 0 {
		cfg.Resilience.BackoffBase = time.Duration(fc.Resilience.BackoffBaseMS) * time.Millisecond
	}
	if fc.Resilience.BackoffMultiplier > 0 {
		cfg.Resilience.BackoffMultiplier = fc.Resilience.BackoffMultiplier
	}
	if fc.Resilience.BreakerEnabled != nil {
		cfg.Resilience.CircuitBreakerEnabled = *fc.Resilience.BreakerEnabled
	}
	if fc.Resilience.BreakerThreshold > 0 {
		cfg.Resilience.CircuitBreakerThreshold = fc.Resilience.BreakerThreshold
	}
	if fc.Resilience.BreakerCooldownS > 0 {
		cfg.Resilience.CircuitBreakerCooldown = time.Duration(fc.Resilience.BreakerCooldownS) * time.Second
	}

	return nil
}

// loadFromEnv carga configuración desde variables de entorno.
func loadFromEnv(cfg *Config) {
	if v := getenv("CREDPROBE_TARGET_FILE", ""); v != "" {
		cfg.TargetFile = v
	}
	if v := getenv("CREDPROBE_USER_FILE", ""); v != "" {
		cfg.UserFile = v
	}
	if v := getenv("CREDPROBE_PASSWORD_FILE", ""); v != "" {
		cfg.PasswordFile = v
	}
	if v := getenv("CREDPROBE_WORKERS", ""); v != "" {
		cfg.Workers = parseInt(v, cfg.Workers)
	}
	if v := getenv("CREDPROBE_TIMEOUT", ""); v != "" {
		cfg.TimeoutS = parseInt(v, cfg.TimeoutS)
	}
	if v := getenv("CREDPROBE_RETRIES", ""); v != "" {
		cfg.MaxRetries = parseInt(v, cfg.MaxRetries)
	}
	if v := getenv("CREDPROBE_SHORT_CIRCUIT", ""); v != "" {
		cfg.ShortCircuit = parseBool(v)
	}
	if v := getenv("CREDPROBE_REPORT_DIR", ""); v != "" {
		cfg.ReportDir = v
	}
	if v := getenv("CREDPROBE_LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("CREDPROBE_PROXY_URL", ""); v != "" {
		cfg.ProxyURL = v
	}
	if v := getenv("CREDPROBE_RATE_LIMIT", ""); v != "" {
		cfg.Rate.AttemptsPerSec = parseFloat(v, cfg.Rate.AttemptsPerSec)
	}

	// Protocol config desde ENV
	// Formato: CREDPROBE_PROTOCOLS_SSH_ENABLED=true
	//          CREDPROBE_PROTOCOLS_SSH_PORT=2222
	//          CREDPROBE_PROTOCOLS_SSH_TIMEOUT=10
	for protocol := range cfg.Protocols {
		prefix := fmt.Sprintf("CREDPROBE_PROTOCOLS_%s_", strings.ToUpper(string(protocol)))

		pcfg := cfg.Protocols[protocol]

		if v := getenv(prefix+"ENABLED", ""); v != "" {
			pcfg.Enabled = parseBool(v)
		}
		if v := getenv(prefix+"PORT", ""); v != "" {
			pcfg.Port = parseInt(v, pcfg.Port)
		}
		if v := getenv(prefix+"TIMEOUT", ""); v != "" {
			pcfg.Timeout = time.Duration(parseInt(v, int(pcfg.Timeout.Seconds()))) * time.Second
		}

		cfg.Protocols[protocol] = pcfg
	}

	// Outputs
	if v := getenv("CREDPROBE_OUTPUTS_TABLE_DISABLED", ""); v != "" {
		cfg.Outputs.TableDisabled = parseBool(v)
	}
	if v := getenv("CREDPROBE_OUTPUTS_HTML_DISABLED", ""); v != "" {
		cfg.Outputs.HTMLDisabled = parseBool(v)
	}

	// Resilience
	if v := getenv("CREDPROBE_RESILIENCE_CB_ENABLED", ""); v != "" {
		cfg.Resilience.CircuitBreakerEnabled = parseBool(v)
	}
	if v := getenv("CREDPROBE_RESILIENCE_CB_THRESHOLD", ""); v != "" {
		cfg.Resilience.CircuitBreakerThreshold = parseInt(v, cfg.Resilience.CircuitBreakerThreshold)
	}
}

// newFlagSet construye el flag set de CLI sobre la configuración dada.
func newFlagSet(cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("credprobe", pflag.ContinueOnError)

	fs.StringVarP(&cfg.ConfigFile, "config", "c", cfg.ConfigFile, "Fichero de configuración YAML")

	fs.StringVarP(&cfg.TargetFile, "target-file", "t", cfg.TargetFile, "Fichero de hosts objetivo (uno por línea)")
	fs.StringVarP(&cfg.Target, "target", "T", cfg.Target, "Host objetivo único")
	fs.StringVarP(&cfg.UserFile, "user-file", "U", cfg.UserFile, "Fichero de usuarios (uno por línea)")
	fs.StringVarP(&cfg.User, "user", "u", cfg.User, "Usuario único")
	fs.StringVarP(&cfg.PasswordFile, "password-file", "p", cfg.PasswordFile, "Fichero de diccionario de contraseñas (requerido)")

	fs.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "Concurrencia máxima de intentos")
	fs.IntVar(&cfg.TimeoutS, "timeout", cfg.TimeoutS, "Timeout por intento en segundos")
	fs.IntVarP(&cfg.MaxRetries, "retries", "r", cfg.MaxRetries, "Reintentos máximos por fallo de red")
	fs.BoolVar(&cfg.ShortCircuit, "short-circuit", cfg.ShortCircuit, "Parar la tupla (host, protocolo, usuario) al primer éxito")

	fs.StringVarP(&cfg.ReportDir, "out", "o", cfg.ReportDir, "Directorio de reportes")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Nivel de log (debug|info|warn|error)")
	fs.StringVar(&cfg.ProxyURL, "proxy", cfg.ProxyURL, "Proxy SOCKS5 para conexiones salientes (opcional)")
	fs.Float64Var(&cfg.Rate.AttemptsPerSec, "rate", cfg.Rate.AttemptsPerSec, "Límite global de intentos por segundo (0 = sin límite)")

	// Protocol configs (solo enabled y port via flags, el resto via ENV o
	// fichero). Los valores se leen después con fs.GetBool/fs.GetInt porque
	// el map no admite punteros a sus entradas.
	for protocol, pcfg := range cfg.Protocols {
		fs.Bool(fmt.Sprintf("proto.%s", protocol), pcfg.Enabled,
			fmt.Sprintf("Habilitar checker %s", protocol))
		fs.Int(fmt.Sprintf("proto.%s.port", protocol), pcfg.Port,
			fmt.Sprintf("Puerto para %s", protocol))
	}

	fs.BoolVar(&cfg.Outputs.TableDisabled, "no-table", cfg.Outputs.TableDisabled,
		"Desactivar salida en tabla (JSON siempre se genera)")
	fs.BoolVar(&cfg.Outputs.HTMLDisabled, "no-html", cfg.Outputs.HTMLDisabled,
		"Desactivar reporte HTML")

	fs.BoolVar(&cfg.Resilience.CircuitBreakerEnabled, "circuit-breaker", cfg.Resilience.CircuitBreakerEnabled,
		"Habilitar circuit breaker por host")

	fs.BoolVarP(&cfg.PrintVersion, "version", "v", false, "Imprimir versión y salir")

	return fs
}

// applyFlags re-aplica sobre cfg únicamente los flags que el usuario pasó
// explícitamente, preservando la prioridad flags > ENV > fichero > defaults.
func applyFlags(fs *pflag.FlagSet, cfg *Config, flagged *Config) {
	if fs.Changed("config") {
		cfg.ConfigFile = flagged.ConfigFile
	}
	if fs.Changed("target-file") {
		cfg.TargetFile = flagged.TargetFile
	}
	if fs.Changed("target") {
		cfg.Target = flagged.Target
	}
	if fs.Changed("user-file") {
		cfg.UserFile = flagged.UserFile
	}
	if fs.Changed("user") {
		cfg.User = flagged.User
	}
	if fs.Changed("password-file") {
		cfg.PasswordFile = flagged.PasswordFile
	}
	if fs.Changed("workers") {
		cfg.Workers = flagged.Workers
	}
	if fs.Changed("timeout") {
		cfg.TimeoutS = flagged.TimeoutS
	}
	if fs.Changed("retries") {
		cfg.MaxRetries = flagged.MaxRetries
	}
	if fs.Changed("short-circuit") {
		cfg.ShortCircuit = flagged.ShortCircuit
	}
	if fs.Changed("out") {
		cfg.ReportDir = flagged.ReportDir
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = flagged.LogLevel
	}
	if fs.Changed("proxy") {
		cfg.ProxyURL = flagged.ProxyURL
	}
	if fs.Changed("rate") {
		cfg.Rate.AttemptsPerSec = flagged.Rate.AttemptsPerSec
	}
	if fs.Changed("no-table") {
		cfg.Outputs.TableDisabled = flagged.Outputs.TableDisabled
	}
	if fs.Changed("no-html") {
		cfg.Outputs.HTMLDisabled = flagged.Outputs.HTMLDisabled
	}
	if fs.Changed("circuit-breaker") {
		cfg.Resilience.CircuitBreakerEnabled = flagged.Resilience.CircuitBreakerEnabled
	}
	if fs.Changed("version") {
		cfg.PrintVersion = flagged.PrintVersion
	}

	for protocol := range cfg.Protocols {
		pcfg := cfg.Protocols[protocol]
		if fs.Changed(fmt.Sprintf("proto.%s", protocol)) {
			if v, err := fs.GetBool(fmt.Sprintf("proto.%s", protocol)); err == nil {
				pcfg.Enabled = v
			}
		}
		if fs.Changed(fmt.Sprintf("proto.%s.port", protocol)) {
			if v, err := fs.GetInt(fmt.Sprintf("proto.%s.port", protocol)); err == nil {
				pcfg.Port = v
			}
		}
		cfg.Protocols[protocol] = pcfg
	}
}

// normalize rellena los valores derivables y sanea los campos
// cosméticos. Workers, timeout y retries NO se corrigen aquí: un valor
// fuera de rango suministrado por el usuario debe llegar intacto a
// Validate y ser un error fatal de arranque, no una corrección muda.
func normalize(c *Config) {
	c.Target = strings.TrimSpace(c.Target)
	c.User = strings.TrimSpace(c.User)
	if c.ReportDir == "" {
		c.ReportDir = "credprobe_out"
	}
	if c.Rate.AttemptsPerSec < 0 {
		c.Rate.AttemptsPerSec = 0
	}
	if c.Rate.Burst < 1 {
		c.Rate.Burst = 1
	}
	if c.Resilience.BackoffBase <= 0 {
		c.Resilience.BackoffBase = 500 * time.Millisecond
	}
	if c.Resilience.BackoffMultiplier < 1.0 {
		c.Resilience.BackoffMultiplier = 2.0
	}
	if c.Resilience.BackoffMax <= 0 {
		c.Resilience.BackoffMax = 10 * time.Second
	}

	// El timeout por protocolo hereda el global salvo override explícito.
	for protocol, pcfg := range c.Protocols {
		if pcfg.Timeout <= 0 {
			pcfg.Timeout = c.Timeout()
		}
		pcfg.ProxyURL = c.ProxyURL
		c.Protocols[protocol] = pcfg
	}
}

// Validate verifica que la configuración permite arrancar una auditoría.
// Cualquier error aquí es fatal: se reporta antes de lanzar workers.
func (c Config) Validate() error {
	var errs []error

	if c.Target == "" && c.TargetFile == "" {
		errs = append(errs, domain.ErrNoTargets)
	}
	if c.User == "" && c.UserFile == "" {
		errs = append(errs, domain.ErrNoUsernames)
	}
	if c.PasswordFile == "" {
		errs = append(errs, domain.ErrNoPasswords)
	}
	if c.Workers < 1 {
		errs = append(errs, errors.Wrapf(domain.ErrInvalidWorkers, "got %d", c.Workers))
	}
	if c.TimeoutS < 1 {
		errs = append(errs, errors.Wrapf(domain.ErrInvalidTimeout, "got %ds", c.TimeoutS))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, errors.Wrapf(domain.ErrInvalidRetries, "got %d", c.MaxRetries))
	}

	enabled := 0
	for protocol, pcfg := range c.Protocols {
		if !protocol.IsValid() {
			errs = append(errs, errors.Wrapf(domain.ErrInvalidProtocol, "%s", protocol))
			continue
		}
		if pcfg.Enabled {
			enabled++
			if pcfg.Port < 1 || pcfg.Port > 65535 {
				errs = append(errs, errors.Wrapf(domain.ErrInvalidPort, "%s: %d", protocol, pcfg.Port))
			}
		}
	}
	if enabled == 0 {
		errs = append(errs, domain.ErrNoCheckers)
	}

	if len(errs) > 0 {
		return errors.Wrap(errors.Join(errs...), domain.ErrInvalidConfig.Error())
	}
	return nil
}

// EnabledProtocols retorna los protocolos habilitados en orden estable.
func (c Config) EnabledProtocols() []domain.Protocol {
	out := make([]domain.Protocol, 0, len(c.Protocols))
	for _, p := range domain.KnownProtocols {
		if pcfg, ok := c.Protocols[p]; ok && pcfg.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// ToJSON serializa la configuración a JSON (útil para debugging).
func (c Config) ToJSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Timeout devuelve el timeout por intento como time.Duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutS) * time.Second
}

// Helpers

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

func parseFloat(v string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}
