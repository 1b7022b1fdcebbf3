// Package ssh implementa el checker de credenciales SSH sobre
// golang.org/x/crypto/ssh con autenticación por password.
package ssh

import (
	"context"
	"fmt"
	"net"
	"time"

	xssh "golang.org/x/crypto/ssh"

	"credprobe/internal/checkers/common"
	"credprobe/internal/core/domain"
	"credprobe/internal/platform/logx"
)

// Checker prueba credenciales contra un servidor SSH. Cada Attempt abre
// una conexión nueva, intenta el handshake con password y la cierra:
// nunca reutiliza sesiones.
type Checker struct {
	dialer        *common.Dialer
	timeout       time.Duration
	clientVersion string
	logger        logx.Logger
}

// New crea un checker SSH. clientVersion sobreescribe el banner de
// cliente enviado en el handshake (vacío = el de la librería).
func New(dialer *common.Dialer, timeout time.Duration, clientVersion string, logger logx.Logger) *Checker {
	return &Checker{
		dialer:        dialer,
		timeout:       timeout,
		clientVersion: clientVersion,
		logger:        logger.With("checker", "ssh"),
	}
}

// Name retorna el nombre del checker.
func (c *Checker) Name() string { return "ssh" }

// Protocol retorna el protocolo que cubre el checker.
func (c *Checker) Protocol() domain.Protocol { return domain.ProtocolSSH }

// Attempt realiza exactamente un intento de autenticación.
func (c *Checker) Attempt(ctx context.Context, host string, port int, cred domain.Credential) domain.Outcome {
	addr := fmt.Sprintf("%s:%d", host, port)

	conn, err := c.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return common.ClassifyDialError(err)
	}
	defer conn.Close()

	// El deadline de la conexión cubre todo el handshake SSH.
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(c.timeout))
	}

	config := &xssh.ClientConfig{
		User: cred.Username,
		Auth: []xssh.AuthMethod{
			xssh.Password(cred.Password),
		},
		HostKeyCallback: xssh.InsecureIgnoreHostKey(),
		ClientVersion:   c.clientVersion,
	}

	sshConn, chans, reqs, err := xssh.NewClientConn(conn, addr, config)
	if err != nil {
		return classifyHandshakeError(err)
	}

	client := xssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	c.logger.Debug("authentication accepted",
		"host", host,
		"username", cred.Username,
		"password", logx.Mask(cred.Password),
	)
	return domain.Success()
}

// Close libera los recursos del checker. El checker SSH no mantiene
// estado entre intentos.
func (c *Checker) Close() error { return nil }

// classifyHandshakeError mapea el error del handshake SSH a un outcome.
// La taxonomía es por texto: la librería no expone tipos de error de
// autenticación.
func classifyHandshakeError(err error) domain.Outcome {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return domain.Timeout("ssh handshake timeout")
	}

	msg := err.Error()
	switch {
	case common.ContainsAny(msg, "unable to authenticate", "authentication failed", "permission denied"):
		return domain.AuthFailure("invalid credentials")
	case common.ContainsAny(msg, "account locked", "user disabled", "password expired"):
		return domain.AuthFailure(msg)
	case common.ContainsAny(msg, "handshake failed"):
		if common.ContainsAny(msg, "protocol") {
			return domain.NetworkError("protocol mismatch")
		}
		return domain.NetworkError(msg)
	case common.IsTimeoutString(msg):
		return domain.Timeout(msg)
	default:
		return domain.NetworkError(msg)
	}
}
