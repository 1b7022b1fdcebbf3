package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"

	"credprobe/internal/checkers/common"
	"credprobe/internal/core/domain"
	"credprobe/internal/platform/logx"
	"credprobe/internal/testutil"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.OutcomeClass
	}{
		{
			name: "invalid password",
			err:  &pq.Error{Code: "28P01", Message: `password authentication failed for user "postgres"`},
			want: domain.OutcomeAuthFailure,
		},
		{
			name: "invalid authorization",
			err:  &pq.Error{Code: "28000", Message: "role does not exist"},
			want: domain.OutcomeAuthFailure,
		},
		{
			name: "missing database means authenticated",
			err:  &pq.Error{Code: "3D000", Message: `database "postgres" does not exist`},
			want: domain.OutcomeSuccess,
		},
		{
			name: "too many connections",
			err:  &pq.Error{Code: "53300", Message: "too many connections"},
			want: domain.OutcomeNetworkError,
		},
		{
			name: "server starting up",
			err:  &pq.Error{Code: "57P03", Message: "the database system is starting up"},
			want: domain.OutcomeNetworkError,
		},
		{
			name: "other server error",
			err:  &pq.Error{Code: "XX000", Message: "internal error"},
			want: domain.OutcomeNetworkError,
		},
		{
			name: "dial timeout",
			err:  errors.New("dial tcp 10.0.0.1:5432: i/o timeout"),
			want: domain.OutcomeTimeout,
		},
		{
			name: "connection refused",
			err:  errors.New("dial tcp 10.0.0.1:5432: connect: connection refused"),
			want: domain.OutcomeNetworkError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError(tt.err)
			testutil.AssertEqual(t, got.Class, tt.want, "classification should match")
		})
	}
}

func TestAttempt_HonorsCanceledContext(t *testing.T) {
	// La cancelación del contexto corta el intento en la fase de conexión
	// sin depender del connect_timeout del DSN.
	dialer, err := common.NewDialer("", 5*time.Second)
	testutil.AssertNoError(t, err, "dialer should build")

	c := New(dialer, 5*time.Second, "", logx.NewSilent())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	outcome := c.Attempt(ctx, "192.0.2.1", 5432, domain.Credential{Username: "postgres", Password: "x"})
	elapsed := time.Since(start)

	testutil.AssertNotEqual(t, outcome.Class, domain.OutcomeSuccess, "canceled attempt cannot succeed")
	testutil.AssertTrue(t, elapsed < time.Second, "canceled attempt returns without waiting for the dial timeout")
}

func TestQuoteConnValue(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"simple", "simple"},
		{"", "''"},
		{"with space", "'with space'"},
		{"quo'te", `quo\'te`},
		{`back\slash`, `back\\slash`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			testutil.AssertEqual(t, quoteConnValue(tt.input), tt.expected, "quoting should match")
		})
	}
}
