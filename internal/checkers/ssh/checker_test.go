package ssh

import (
	"errors"
	"testing"

	"credprobe/internal/core/domain"
	"credprobe/internal/testutil"
)

func TestClassifyHandshakeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.OutcomeClass
	}{
		{
			name: "rejected password",
			err:  errors.New("ssh: handshake failed: ssh: unable to authenticate, attempted methods [none password], no supported methods remain"),
			want: domain.OutcomeAuthFailure,
		},
		{
			name: "authentication failed",
			err:  errors.New("authentication failed"),
			want: domain.OutcomeAuthFailure,
		},
		{
			name: "account locked",
			err:  errors.New("account locked"),
			want: domain.OutcomeAuthFailure,
		},
		{
			name: "protocol mismatch",
			err:  errors.New("ssh: handshake failed: ssh: no common algorithm for protocol negotiation"),
			want: domain.OutcomeNetworkError,
		},
		{
			name: "handshake failure",
			err:  errors.New("ssh: handshake failed: read tcp: connection reset by peer"),
			want: domain.OutcomeNetworkError,
		},
		{
			name: "io timeout",
			err:  errors.New("read tcp 10.0.0.1:22: i/o timeout"),
			want: domain.OutcomeTimeout,
		},
		{
			name: "unknown error",
			err:  errors.New("ssh: something unexpected"),
			want: domain.OutcomeNetworkError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyHandshakeError(tt.err)
			testutil.AssertEqual(t, got.Class, tt.want, "classification should match")
		})
	}
}

func TestClassifyHandshakeError_AuthFailureWinsOverHandshake(t *testing.T) {
	// El error real del rechazo de password de x/crypto/ssh contiene ambos
	// marcadores: "handshake failed" y "unable to authenticate". Debe
	// clasificarse como rechazo de credencial, no como error de red.
	err := errors.New("ssh: handshake failed: ssh: unable to authenticate")
	got := classifyHandshakeError(err)
	testutil.AssertEqual(t, got.Class, domain.OutcomeAuthFailure, "auth failure takes precedence")
}
