// internal/platform/config/help.go
package config

import (
	"fmt"
	"os"
	"runtime"
)

const helpText = `
credprobe - Weak Credential Audit Engine

USAGE:
  credprobe -t <hosts-file> -U <users-file> -p <passwords-file> [options]

INPUT OPTIONS:
  -t, --target-file string     Target hosts file, one host per line (# comments allowed)
  -T, --target string          Single target host (alternative to -t)
  -U, --user-file string       Usernames file, one per line
  -u, --user string            Single username (alternative to -U)
  -p, --password-file string   Password dictionary file (required)
  -c, --config string          YAML configuration file

SCHEDULING OPTIONS:
  -w, --workers int            Max concurrent attempts (default: 8)
  --timeout int                Per-attempt timeout in seconds (default: 5)
  -r, --retries int            Max retries on network failure (default: 2)
  --short-circuit              Stop a (host, protocol, user) tuple at first hit (default: true)
  --rate float                 Global attempts-per-second limit, 0=unlimited (default: 0)

PROTOCOL OPTIONS:
  --proto.ssh                  Enable SSH checker (default: true)
  --proto.ssh.port int         SSH port (default: 22)
  --proto.ftp                  Enable FTP checker (default: true)
  --proto.ftp.port int         FTP port (default: 21)
  --proto.mysql                Enable MySQL checker (default: true)
  --proto.mysql.port int       MySQL port (default: 3306)
  --proto.postgres             Enable PostgreSQL checker (default: true)
  --proto.postgres.port int    PostgreSQL port (default: 5432)

  Protocol-specific options are available via the YAML file under
  protocols.<name>.options, e.g. database (mysql, postgres),
  client_version (ssh), disable_epsv (ftp).

OUTPUT OPTIONS:
  -o, --out string             Report directory (default: "credprobe_out")
  --no-table                   Disable table output (JSON is always generated)
  --no-html                    Disable HTML report

RESILIENCE OPTIONS:
  --circuit-breaker            Per-host circuit breaker for failing hosts (default: true)

NETWORK OPTIONS:
  --proxy string               SOCKS5 proxy URL for outbound connections (optional)

INFO:
  --log-level string           Log level: debug|info|warn|error (default: info)
  -v, --version                Print version information and exit
  -h, --help                   Show this help message

EXAMPLES:
  Basic audit over all protocols:
    credprobe -t hosts.txt -U users.txt -p passwords.txt

  Single host, SSH only:
    credprobe -T 10.0.0.5 -u root -p rockyou.txt --proto.ftp=false --proto.mysql=false --proto.postgres=false

  Paced audit through a proxy:
    credprobe -t hosts.txt -U users.txt -p passwords.txt --rate 2 --proxy socks5://127.0.0.1:9050

  YAML-driven run:
    credprobe -c credprobe.yaml

ENVIRONMENT VARIABLES:
  Most flags can be set via environment variables with CREDPROBE_ prefix:

  CREDPROBE_TARGET_FILE            Target hosts file
  CREDPROBE_USER_FILE              Usernames file
  CREDPROBE_PASSWORD_FILE          Password dictionary
  CREDPROBE_WORKERS=16             Max concurrent attempts
  CREDPROBE_TIMEOUT=10             Per-attempt timeout in seconds
  CREDPROBE_RETRIES=3              Max retries on network failure
  CREDPROBE_REPORT_DIR=/path       Report directory
  CREDPROBE_LOG_LEVEL=debug        Log level
  CREDPROBE_PROXY_URL=socks5://... Proxy URL
  CREDPROBE_CONFIG=/path/cfg.yaml  YAML configuration file

  Protocol-specific (replace SSH with protocol name):
  CREDPROBE_PROTOCOLS_SSH_ENABLED=false
  CREDPROBE_PROTOCOLS_SSH_PORT=2222
  CREDPROBE_PROTOCOLS_SSH_TIMEOUT=10

  Note: CLI flags override environment variables and the YAML file.

OUTPUT:
  credprobe writes reports into the report directory:
  - JSON report with every trial result and a summary block
  - HTML report with discovered credentials and per-protocol stats
  - Table output to stdout (unless --no-table)

Passwords are masked in all log output. Plaintext credentials appear
only in the generated reports.

Run only against systems you are authorized to audit.
`

// PrintHelp prints the custom help message and exits.
func PrintHelp() {
	fmt.Fprint(os.Stdout, helpText)
	os.Exit(0)
}

// PrintVersion prints version information and exits.
func PrintVersion(version, commit, date string) {
	fmt.Printf("credprobe %s\n", version)
	fmt.Printf("  Commit:  %s\n", commit)
	fmt.Printf("  Built:   %s\n", date)
	fmt.Printf("  Go:      %s\n", getGoVersion())
	os.Exit(0)
}

func getGoVersion() string {
	return runtime.Version()
}
