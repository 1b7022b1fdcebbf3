// Package ftp implementa el checker de credenciales FTP sobre
// github.com/jlaffaye/ftp.
package ftp

import (
	"context"
	"fmt"
	"net"
	"time"

	jftp "github.com/jlaffaye/ftp"

	"credprobe/internal/checkers/common"
	"credprobe/internal/core/domain"
	"credprobe/internal/platform/logx"
)

// Checker prueba credenciales contra un servidor FTP. Cada Attempt abre
// una sesión de control nueva, hace login y la cierra con Quit.
type Checker struct {
	dialer      *common.Dialer
	timeout     time.Duration
	disableEPSV bool
	logger      logx.Logger
}

// New crea un checker FTP. disableEPSV fuerza el modo PASV clásico en
// servidores que anuncian EPSV pero no lo implementan bien.
func New(dialer *common.Dialer, timeout time.Duration, disableEPSV bool, logger logx.Logger) *Checker {
	return &Checker{
		dialer:      dialer,
		timeout:     timeout,
		disableEPSV: disableEPSV,
		logger:      logger.With("checker", "ftp"),
	}
}

// Name retorna el nombre del checker.
func (c *Checker) Name() string { return "ftp" }

// Protocol retorna el protocolo que cubre el checker.
func (c *Checker) Protocol() domain.Protocol { return domain.ProtocolFTP }

// Attempt realiza exactamente un intento de autenticación.
func (c *Checker) Attempt(ctx context.Context, host string, port int, cred domain.Credential) domain.Outcome {
	addr := fmt.Sprintf("%s:%d", host, port)

	opts := []jftp.DialOption{
		jftp.DialWithContext(ctx),
		jftp.DialWithTimeout(c.timeout),
		jftp.DialWithDialFunc(func(network, address string) (net.Conn, error) {
			return c.dialer.DialContext(ctx, network, address)
		}),
	}
	if c.disableEPSV {
		opts = append(opts, jftp.DialWithDisabledEPSV(true))
	}

	conn, err := jftp.Dial(addr, opts...)
	if err != nil {
		return classifyDialError(err)
	}
	defer conn.Quit()

	if err := conn.Login(cred.Username, cred.Password); err != nil {
		return classifyLoginError(err)
	}

	c.logger.Debug("authentication accepted",
		"host", host,
		"username", cred.Username,
		"password", logx.Mask(cred.Password),
	)
	return domain.Success()
}

// Close libera los recursos del checker.
func (c *Checker) Close() error { return nil }

// classifyDialError mapea errores de conexión del cliente FTP.
func classifyDialError(err error) domain.Outcome {
	msg := err.Error()
	switch {
	case common.IsTimeoutString(msg):
		return domain.Timeout(msg)
	case common.ContainsAny(msg, "eof"):
		// el servidor cerró la sesión de control antes del banner
		return domain.NetworkError("connection reset")
	default:
		return common.ClassifyDialError(err)
	}
}

// classifyLoginError mapea el error de login FTP a un outcome. Los
// códigos 530 y sus variantes textuales son rechazos de credencial.
func classifyLoginError(err error) domain.Outcome {
	msg := err.Error()
	switch {
	case common.ContainsAny(msg,
		"530",
		"login incorrect",
		"not logged in",
		"permission denied",
		"authentication failed",
		"auth failed",
		"invalid login"):
		return domain.AuthFailure("invalid credentials")
	case common.ContainsAny(msg, "account locked", "locked out"):
		return domain.AuthFailure(msg)
	case common.ContainsAny(msg, "eof"):
		// algunos servidores cortan la sesión en vez de responder 530
		return domain.AuthFailure("connection closed on login")
	case common.IsTimeoutString(msg):
		return domain.Timeout(msg)
	case common.ContainsAny(msg, "broken pipe", "connection reset"):
		return domain.NetworkError("connection reset")
	default:
		return domain.NetworkError(msg)
	}
}
