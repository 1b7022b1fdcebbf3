// Package common holds the pieces shared by every protocol checker:
// the outbound dialer (direct or SOCKS5) and the network error
// classifier.
package common

import (
	"context"
	"net"
	"net/url"
	"time"

	xproxy "golang.org/x/net/proxy"

	"credprobe/internal/platform/errors"
)

// Dialer establishes outbound TCP connections for checkers, optionally
// through a SOCKS5 proxy. It also satisfies the dialer interfaces of
// database drivers (Dial / DialTimeout).
type Dialer struct {
	timeout time.Duration
	direct  net.Dialer
	proxied xproxy.ContextDialer // nil when no proxy configured
}

// NewDialer builds a dialer with the given per-connection timeout.
// proxyURL is optional; only socks5:// proxies are supported.
func NewDialer(proxyURL string, timeout time.Duration) (*Dialer, error) {
	d := &Dialer{
		timeout: timeout,
		direct:  net.Dialer{Timeout: timeout},
	}

	if proxyURL == "" {
		return d, nil
	}

	u, err := url.Parse(proxyURL)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "invalid proxy url %q: %v", proxyURL, err)
	}
	if u.Scheme != "socks5" && u.Scheme != "socks5h" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unsupported proxy scheme %q", u.Scheme)
	}

	var auth *xproxy.Auth
	if u.User != nil {
		password, _ := u.User.Password()
		auth = &xproxy.Auth{User: u.User.Username(), Password: password}
	}

	p, err := xproxy.SOCKS5("tcp", u.Host, auth, &d.direct)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build socks5 dialer for %s", u.Host)
	}

	ctxDialer, ok := p.(xproxy.ContextDialer)
	if !ok {
		return nil, errors.New("socks5 dialer does not support context dialing")
	}
	d.proxied = ctxDialer

	return d, nil
}

// DialContext establishes a connection honoring the context deadline.
func (d *Dialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	if d.proxied != nil {
		return d.proxied.DialContext(ctx, network, addr)
	}
	return d.direct.DialContext(ctx, network, addr)
}

// Dial implements the blocking dialer interface used by lib/pq.
func (d *Dialer) Dial(network, addr string) (net.Conn, error) {
	return d.DialTimeout(network, addr, d.timeout)
}

// DialTimeout implements the timed dialer interface used by lib/pq.
func (d *Dialer) DialTimeout(network, addr string, timeout time.Duration) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return d.DialContext(ctx, network, addr)
}

// Timeout returns the configured per-connection timeout.
func (d *Dialer) Timeout() time.Duration {
	return d.timeout
}
