// Package mysql implementa el checker de credenciales MySQL sobre
// github.com/go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"sync"
	"time"

	gomysql "github.com/go-sql-driver/mysql"

	"credprobe/internal/checkers/common"
	"credprobe/internal/core/domain"
	"credprobe/internal/platform/errors"
	"credprobe/internal/platform/logx"
)

// dialNetwork es el nombre de red registrado en el driver para enrutar
// las conexiones por nuestro dialer (directo o SOCKS5).
const dialNetwork = "credprobe"

var registerOnce sync.Once

// Checker prueba credenciales contra un servidor MySQL. Cada Attempt
// abre un pool de una sola conexión, hace ping y lo cierra.
type Checker struct {
	dialer   *common.Dialer
	timeout  time.Duration
	database string
	logger   logx.Logger
}

// New crea un checker MySQL y registra el dialer en el driver. database
// es opcional: vacío autentica sin seleccionar base.
func New(dialer *common.Dialer, timeout time.Duration, database string, logger logx.Logger) *Checker {
	c := &Checker{
		dialer:   dialer,
		timeout:  timeout,
		database: database,
		logger:   logger.With("checker", "mysql"),
	}

	registerOnce.Do(func() {
		gomysql.RegisterDialContext(dialNetwork, func(ctx context.Context, addr string) (net.Conn, error) {
			return c.dialer.DialContext(ctx, "tcp", addr)
		})
	})

	return c
}

// Name retorna el nombre del checker.
func (c *Checker) Name() string { return "mysql" }

// Protocol retorna el protocolo que cubre el checker.
func (c *Checker) Protocol() domain.Protocol { return domain.ProtocolMySQL }

// Attempt realiza exactamente un intento de autenticación.
func (c *Checker) Attempt(ctx context.Context, host string, port int, cred domain.Credential) domain.Outcome {
	cfg := gomysql.NewConfig()
	cfg.User = cred.Username
	cfg.Passwd = cred.Password
	cfg.Net = dialNetwork
	cfg.Addr = fmt.Sprintf("%s:%d", host, port)
	cfg.DBName = c.database
	cfg.Timeout = c.timeout
	cfg.ReadTimeout = c.timeout
	cfg.WriteTimeout = c.timeout
	cfg.AllowNativePasswords = true

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return domain.NetworkError(err.Error())
	}
	defer db.Close()

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)

	if err := db.PingContext(ctx); err != nil {
		return classifyError(err)
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

// classifyError mapea errores del driver MySQL a un outcome. El driver
// expone códigos de error del servidor via *gomysql.MySQLError.
func classifyError(err error) domain.Outcome {
	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1045: // ER_ACCESS_DENIED_ERROR
			return domain.AuthFailure("access denied")
		case 1044, 1049: // sin permisos sobre la BD / BD inexistente: autenticó
			return domain.Success()
		case 3118: // ER_ACCOUNT_HAS_BEEN_LOCKED
			return domain.AuthFailure("account locked")
		case 1040: // ER_CON_COUNT_ERROR
			return domain.NetworkError("too many connections")
		case 1130: // ER_HOST_NOT_PRIVILEGED
			return domain.NetworkError("host not allowed to connect")
		default:
			return domain.NetworkError(myErr.Message)
		}
	}

	msg := err.Error()
	switch {
	case common.IsTimeoutString(msg):
		return domain.Timeout(msg)
	default:
		return common.ClassifyDialError(err)
	}
}
