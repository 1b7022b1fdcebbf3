// internal/platform/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"credprobe/internal/core/domain"
	"credprobe/internal/core/ports"
	"credprobe/internal/platform/errors"
	"credprobe/internal/testutil"
)

func clone(src map[domain.Protocol]ports.CheckerConfig) map[domain.Protocol]ports.CheckerConfig {
	out := make(map[domain.Protocol]ports.CheckerConfig, len(src))
	for p, c := range src {
		out[p] = c
	}
	return out
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	testutil.AssertEqual(t, cfg.Workers, 8, "default workers")
	testutil.AssertEqual(t, cfg.TimeoutS, 5, "default timeout")
	testutil.AssertEqual(t, cfg.MaxRetries, 2, "default retries")
	testutil.AssertTrue(t, cfg.ShortCircuit, "short-circuit enabled by default")
	testutil.AssertEqual(t, cfg.ReportDir, "credprobe_out", "default report dir")
	testutil.AssertEqual(t, len(cfg.Protocols), 4, "four protocols configured")

	ssh := cfg.Protocols[domain.ProtocolSSH]
	testutil.AssertTrue(t, ssh.Enabled, "ssh enabled by default")
	testutil.AssertEqual(t, ssh.Port, 22, "ssh default port")

	pg := cfg.Protocols[domain.ProtocolPostgres]
	testutil.AssertEqual(t, pg.Port, 5432, "postgres default port")
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := Load([]string{
		"-t", "hosts.txt",
		"-U", "users.txt",
		"-p", "passwords.txt",
		"-w", "16",
		"--timeout", "10",
		"--retries", "1",
		"--no-table",
	})
	testutil.AssertNoError(t, err, "load should succeed")

	testutil.AssertEqual(t, cfg.TargetFile, "hosts.txt", "target file from flag")
	testutil.AssertEqual(t, cfg.UserFile, "users.txt", "user file from flag")
	testutil.AssertEqual(t, cfg.PasswordFile, "passwords.txt", "password file from flag")
	testutil.AssertEqual(t, cfg.Workers, 16, "workers from flag")
	testutil.AssertEqual(t, cfg.TimeoutS, 10, "timeout from flag")
	testutil.AssertEqual(t, cfg.MaxRetries, 1, "retries from flag")
	testutil.AssertTrue(t, cfg.Outputs.TableDisabled, "table disabled from flag")
}

func TestLoad_ProtocolFlags(t *testing.T) {
	cfg, err := Load([]string{
		"--proto.ftp=false",
		"--proto.ssh.port", "2222",
	})
	testutil.AssertNoError(t, err, "load should succeed")

	testutil.AssertFalse(t, cfg.Protocols[domain.ProtocolFTP].Enabled, "ftp disabled via flag")
	testutil.AssertEqual(t, cfg.Protocols[domain.ProtocolSSH].Port, 2222, "ssh port via flag")
	testutil.AssertTrue(t, cfg.Protocols[domain.ProtocolMySQL].Enabled, "mysql untouched")
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("CREDPROBE_WORKERS", "32")
	t.Setenv("CREDPROBE_REPORT_DIR", "/tmp/reports")
	t.Setenv("CREDPROBE_PROTOCOLS_SSH_PORT", "2200")

	cfg, err := Load(nil)
	testutil.AssertNoError(t, err, "load should succeed")

	testutil.AssertEqual(t, cfg.Workers, 32, "workers from env")
	testutil.AssertEqual(t, cfg.ReportDir, "/tmp/reports", "report dir from env")
	testutil.AssertEqual(t, cfg.Protocols[domain.ProtocolSSH].Port, 2200, "ssh port from env")
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("CREDPROBE_WORKERS", "32")

	cfg, err := Load([]string{"-w", "4"})
	testutil.AssertNoError(t, err, "load should succeed")

	testutil.AssertEqual(t, cfg.Workers, 4, "flag should override env")
}

func TestLoad_YAMLFile(t *testing.T) {
	yamlContent := `
password_file: dict.txt
max_workers: 12
timeout: 8
max_retries: 0
short_circuit: false
report_dir: out
attempts_per_sec: 2.5
protocols:
  ssh:
    port: 2222
  mysql:
    enabled: false
  postgres:
    options:
      database: template1
resilience:
  backoff_base_ms: 250
  breaker_threshold: 10
`
	path := filepath.Join(t.TempDir(), "credprobe.yaml")
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write yaml: %v", err)
	}

	cfg, err := Load([]string{"-c", path})
	testutil.AssertNoError(t, err, "load should succeed")

	testutil.AssertEqual(t, cfg.PasswordFile, "dict.txt", "password file from yaml")
	testutil.AssertEqual(t, cfg.Workers, 12, "workers from yaml")
	testutil.AssertEqual(t, cfg.TimeoutS, 8, "timeout from yaml")
	testutil.AssertEqual(t, cfg.MaxRetries, 0, "explicit zero retries from yaml")
	testutil.AssertFalse(t, cfg.ShortCircuit, "short-circuit disabled from yaml")
	testutil.AssertEqual(t, cfg.Rate.AttemptsPerSec, 2.5, "rate from yaml")
	testutil.AssertEqual(t, cfg.Protocols[domain.ProtocolSSH].Port, 2222, "ssh port from yaml")
	testutil.AssertFalse(t, cfg.Protocols[domain.ProtocolMySQL].Enabled, "mysql disabled from yaml")
	testutil.AssertEqual(t, cfg.Protocols[domain.ProtocolPostgres].Custom["database"], "template1", "protocol option from yaml")
	testutil.AssertEqual(t, cfg.Resilience.BackoffBase, 250*time.Millisecond, "backoff base from yaml")
	testutil.AssertEqual(t, cfg.Resilience.CircuitBreakerThreshold, 10, "breaker threshold from yaml")
}

func TestLoad_FlagsOverrideYAML(t *testing.T) {
	yamlContent := "max_workers: 12\n"
	path := filepath.Join(t.TempDir(), "credprobe.yaml")
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write yaml: %v", err)
	}

	cfg, err := Load([]string{"-c", path, "-w", "2"})
	testutil.AssertNoError(t, err, "load should succeed")

	testutil.AssertEqual(t, cfg.Workers, 2, "flag should override yaml")
}

func TestLoad_YAMLMissingFile(t *testing.T) {
	_, err := Load([]string{"-c", filepath.Join(t.TempDir(), "nope.yaml")})
	testutil.AssertError(t, err, "missing yaml should fail")
	testutil.AssertTrue(t, errors.Is(err, domain.ErrConfigLoadFailed), "should wrap ErrConfigLoadFailed")
}

func TestLoad_YAMLUnknownProtocol(t *testing.T) {
	yamlContent := "protocols:\n  gopher:\n    port: 70\n"
	path := filepath.Join(t.TempDir(), "credprobe.yaml")
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write yaml: %v", err)
	}

	_, err := Load([]string{"-c", path})
	testutil.AssertError(t, err, "unknown protocol should fail")
	testutil.AssertTrue(t, errors.Is(err, domain.ErrInvalidProtocol), "should wrap ErrInvalidProtocol")
}

func TestNormalize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 0
	cfg.TimeoutS = -5
	cfg.ReportDir = ""
	cfg.Rate.AttemptsPerSec = -1

	normalize(&cfg)

	// los valores fuera de rango del usuario no se corrigen: los rechaza
	// Validate como error fatal
	testutil.AssertEqual(t, cfg.Workers, 0, "out-of-range workers preserved for Validate")
	testutil.AssertEqual(t, cfg.TimeoutS, -5, "out-of-range timeout preserved for Validate")
	testutil.AssertEqual(t, cfg.ReportDir, "credprobe_out", "report dir restored")
	testutil.AssertEqual(t, cfg.Rate.AttemptsPerSec, 0.0, "negative rate becomes unlimited")
}

func TestLoad_ExplicitInvalidBoundsAreFatal(t *testing.T) {
	// Un valor fuera de rango pasado por CLI debe sobrevivir a Load y ser
	// rechazado por Validate, nunca corregido en silencio.
	base := []string{"-T", "10.0.0.1", "-u", "root", "-p", "dict.txt"}

	t.Run("zero workers", func(t *testing.T) {
		cfg, err := Load(append([]string{"-w", "0"}, base...))
		testutil.AssertNoError(t, err, "load should succeed")
		testutil.AssertEqual(t, cfg.Workers, 0, "workers not clamped")
		verr := cfg.Validate()
		testutil.AssertError(t, verr, "should fail")
		testutil.AssertTrue(t, errors.Is(verr, domain.ErrInvalidWorkers), "should report ErrInvalidWorkers")
	})

	t.Run("zero timeout", func(t *testing.T) {
		cfg, err := Load(append([]string{"--timeout", "0"}, base...))
		testutil.AssertNoError(t, err, "load should succeed")
		verr := cfg.Validate()
		testutil.AssertError(t, verr, "should fail")
		testutil.AssertTrue(t, errors.Is(verr, domain.ErrInvalidTimeout), "should report ErrInvalidTimeout")
	})

	t.Run("negative retries", func(t *testing.T) {
		cfg, err := Load(append([]string{"-r", "-1"}, base...))
		testutil.AssertNoError(t, err, "load should succeed")
		verr := cfg.Validate()
		testutil.AssertError(t, verr, "should fail")
		testutil.AssertTrue(t, errors.Is(verr, domain.ErrInvalidRetries), "should report ErrInvalidRetries")
	})
}

func TestNormalize_ProtocolTimeoutInherited(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeoutS = 9
	for p, pcfg := range cfg.Protocols {
		pcfg.Timeout = 0
		cfg.Protocols[p] = pcfg
	}

	normalize(&cfg)

	for p, pcfg := range cfg.Protocols {
		testutil.AssertEqual(t, pcfg.Timeout, 9*time.Second, "protocol "+string(p)+" inherits global timeout")
	}
}

func TestValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.Target = "10.0.0.5"
	valid.User = "root"
	valid.PasswordFile = "dict.txt"

	t.Run("valid config passes", func(t *testing.T) {
		testutil.AssertNoError(t, valid.Validate(), "valid config should pass")
	})

	t.Run("missing targets", func(t *testing.T) {
		cfg := valid
		cfg.Target = ""
		cfg.TargetFile = ""
		err := cfg.Validate()
		testutil.AssertError(t, err, "should fail")
		testutil.AssertTrue(t, errors.Is(err, domain.ErrNoTargets), "should report ErrNoTargets")
	})

	t.Run("missing usernames", func(t *testing.T) {
		cfg := valid
		cfg.User = ""
		cfg.UserFile = ""
		err := cfg.Validate()
		testutil.AssertError(t, err, "should fail")
		testutil.AssertTrue(t, errors.Is(err, domain.ErrNoUsernames), "should report ErrNoUsernames")
	})

	t.Run("missing password file", func(t *testing.T) {
		cfg := valid
		cfg.PasswordFile = ""
		err := cfg.Validate()
		testutil.AssertError(t, err, "should fail")
		testutil.AssertTrue(t, errors.Is(err, domain.ErrNoPasswords), "should report ErrNoPasswords")
	})

	t.Run("invalid workers", func(t *testing.T) {
		cfg := valid
		cfg.Workers = 0
		err := cfg.Validate()
		testutil.AssertError(t, err, "should fail")
		testutil.AssertTrue(t, errors.Is(err, domain.ErrInvalidWorkers), "should report ErrInvalidWorkers")
	})

	t.Run("no checkers enabled", func(t *testing.T) {
		cfg := valid
		cfg.Protocols = clone(valid.Protocols)
		for p, pcfg := range cfg.Protocols {
			pcfg.Enabled = false
			cfg.Protocols[p] = pcfg
		}
		err := cfg.Validate()
		testutil.AssertError(t, err, "should fail")
		testutil.AssertTrue(t, errors.Is(err, domain.ErrNoCheckers), "should report ErrNoCheckers")
	})

	t.Run("invalid port on enabled protocol", func(t *testing.T) {
		cfg := valid
		cfg.Protocols = clone(valid.Protocols)
		ssh := cfg.Protocols[domain.ProtocolSSH]
		ssh.Port = 70000
		cfg.Protocols[domain.ProtocolSSH] = ssh
		err := cfg.Validate()
		testutil.AssertError(t, err, "should fail")
		testutil.AssertTrue(t, errors.Is(err, domain.ErrInvalidPort), "should report ErrInvalidPort")
	})

	t.Run("multiple errors joined", func(t *testing.T) {
		cfg := valid
		cfg.PasswordFile = ""
		cfg.Workers = 0
		err := cfg.Validate()
		testutil.AssertError(t, err, "should fail")
		testutil.AssertTrue(t, errors.Is(err, domain.ErrNoPasswords), "should report ErrNoPasswords")
		testutil.AssertTrue(t, errors.Is(err, domain.ErrInvalidWorkers), "should report ErrInvalidWorkers")
	})
}

func TestEnabledProtocols_StableOrder(t *testing.T) {
	cfg := DefaultConfig()

	first := cfg.EnabledProtocols()
	testutil.AssertEqual(t, len(first), 4, "all protocols enabled")

	for i := 0; i < 10; i++ {
		again := cfg.EnabledProtocols()
		for j := range first {
			testutil.AssertEqual(t, again[j], first[j], "order must be stable across calls")
		}
	}
}

func TestTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeoutS = 7
	testutil.AssertEqual(t, cfg.Timeout(), 7*time.Second, "timeout as duration")
}

func TestParseBool(t *testing.T) {
	trues := []string{"1", "t", "true", "y", "yes", "on", "TRUE", " yes "}
	for _, v := range trues {
		testutil.AssertTrue(t, parseBool(v), "should parse as true: "+v)
	}

	falses := []string{"0", "false", "no", "off", "", "garbage"}
	for _, v := range falses {
		testutil.AssertFalse(t, parseBool(v), "should parse as false: "+v)
	}
}

func TestParseInt(t *testing.T) {
	testutil.AssertEqual(t, parseInt("42", 0), 42, "valid int")
	testutil.AssertEqual(t, parseInt(" 7 ", 0), 7, "trimmed int")
	testutil.AssertEqual(t, parseInt("bad", 9), 9, "invalid falls back to default")
}
