// internal/platform/validator/validator.go
package validator

import (
	"net"
	"regexp"
	"strconv"
	"strings"
)

// Host validators

var hostnameRegex = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?$`)

// IsHostname verifica si un string es un hostname válido (RFC 1123).
func IsHostname(host string) bool {
	if len(host) == 0 || len(host) > 253 {
		return false
	}
	if !hostnameRegex.MatchString(host) {
		return false
	}
	// Una IP literal no es un hostname
	if net.ParseIP(host) != nil {
		return false
	}
	return true
}

// IsIP verifica si un string es una dirección IP válida (v4 o v6).
func IsIP(ip string) bool {
	return net.ParseIP(ip) != nil
}

// IsIPv4 verifica si un string es una dirección IPv4 válida.
func IsIPv4(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return parsed.To4() != nil
}

// IsHost acepta tanto IPs como hostnames. Es la validación que se aplica
// a cada línea del fichero de targets antes de encolar trials.
func IsHost(host string) bool {
	return IsIP(host) || IsHostname(host)
}

// IsPort valida que un puerto esté en el rango válido [1-65535].
func IsPort(port int) bool {
	return port >= 1 && port <= 65535
}

// NormalizeHost normaliza un host a su forma canónica (lowercase, sin
// espacios ni punto final).
func NormalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimSuffix(host, ".")
	return host
}

// SplitHostPort separa un target "host" o "host:puerto". Si no hay puerto
// retorna 0. Un puerto mal formado retorna error vía ok=false.
func SplitHostPort(target string) (host string, port int, ok bool) {
	target = strings.TrimSpace(target)
	if !strings.Contains(target, ":") {
		return NormalizeHost(target), 0, true
	}
	// IPv6 literal sin puerto
	if ip := net.ParseIP(target); ip != nil {
		return target, 0, true
	}
	h, p, err := net.SplitHostPort(target)
	if err != nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(p)
	if err != nil || !IsPort(n) {
		return "", 0, false
	}
	return NormalizeHost(h), n, true
}
