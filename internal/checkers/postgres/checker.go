// Package postgres implementa el checker de credenciales PostgreSQL
// sobre github.com/lib/pq.
package postgres

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/lib/pq"

	"credprobe/internal/checkers/common"
	"credprobe/internal/core/domain"
	"credprobe/internal/platform/errors"
	"credprobe/internal/platform/logx"
)

// Checker prueba credenciales contra un servidor PostgreSQL. Cada
// Attempt abre la conexión a bajo nivel con el dialer propio (lo que
// permite rutear por SOCKS5) y la cierra inmediatamente.
type Checker struct {
	dialer   *common.Dialer
	timeout  time.Duration
	database string
	logger   logx.Logger
}

// New crea un checker PostgreSQL. database es la base contra la que se
// autentica (normalmente "postgres").
func New(dialer *common.Dialer, timeout time.Duration, database string, logger logx.Logger) *Checker {
	if database == "" {
		database = "postgres"
	}
	return &Checker{
		dialer:   dialer,
		timeout:  timeout,
		database: database,
		logger:   logger.With("checker", "postgres"),
	}
}

// Name retorna el nombre del checker.
func (c *Checker) Name() string { return "postgres" }

// Protocol retorna el protocolo que cubre el checker.
func (c *Checker) Protocol() domain.Protocol { return domain.ProtocolPostgres }

// Attempt realiza exactamente un intento de autenticación. Se conecta a
// la base configurada; una credencial válida sin acceso a esa base
// también cuenta como éxito (el servidor la autenticó).
func (c *Checker) Attempt(ctx context.Context, host string, port int, cred domain.Credential) domain.Outcome {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable connect_timeout=%d",
		host, port,
		quoteConnValue(cred.Username),
		quoteConnValue(cred.Password),
		quoteConnValue(c.database),
		int(c.timeout.Seconds()),
	)

	conn, err := pq.DialOpen(ctxDialer{ctx: ctx, dialer: c.dialer}, dsn)
	if err != nil {
		return classifyError(err)
	}
	_ = conn.Close()

	c.logger.Debug("authentication accepted",
		"host", host,
		"username", cred.Username,
		"password", logx.Mask(cred.Password),
	)
	return domain.Success()
}

// Close libera los recursos del checker.
func (c *Checker) Close() error { return nil }

// ctxDialer adapta el Dialer compartido al contrato pq.Dialer atando
// cada conexión al contexto del intento en curso, de modo que la
// cancelación corta también la fase de conexión.
type ctxDialer struct {
	ctx    context.Context
	dialer *common.Dialer
}

func (d ctxDialer) Dial(network, addr string) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(d.ctx, d.dialer.Timeout())
	defer cancel()
	return d.dialer.DialContext(ctx, network, addr)
}

func (d ctxDialer) DialTimeout(network, addr string, timeout time.Duration) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(d.ctx, timeout)
	defer cancel()
	return d.dialer.DialContext(ctx, network, addr)
}

// classifyError mapea errores del driver pq a un outcome usando los
// códigos SQLSTATE de la clase 28 (authorization) y 3D (database).
func classifyError(err error) domain.Outcome {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "28P01": // invalid_password
			return domain.AuthFailure("invalid credentials")
		case "28000": // invalid_authorization_specification
			return domain.AuthFailure(pqErr.Message)
		case "3D000": // invalid_catalog_name: autenticó pero la BD no existe
			return domain.Success()
		case "53300": // too_many_connections
			return domain.NetworkError("too many connections")
		case "57P03": // cannot_connect_now (arrancando / apagándose)
			return domain.NetworkError("server not accepting connections")
		default:
			return domain.NetworkError(pqErr.Message)
		}
	}

	msg := err.Error()
	if common.IsTimeoutString(msg) {
		return domain.Timeout(msg)
	}
	return common.ClassifyDialError(err)
}

// quoteConnValue escapa un valor de la cadena de conexión keyword/value
// de libpq: comillas simples y backslashes, y comillas alrededor si hay
// espacios o está vacío.
func quoteConnValue(v string) string {
	needsQuotes := v == ""
	out := make([]byte, 0, len(v)+2)
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '\'', '\\':
			out = append(out, '\\')
		case ' ':
			needsQuotes = true
		}
		out = append(out, v[i])
	}
	if needsQuotes {
		return "'" + string(out) + "'"
	}
	return string(out)
}
