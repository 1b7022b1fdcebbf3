package ftp

import (
	"errors"
	"testing"

	"credprobe/internal/core/domain"
	"credprobe/internal/testutil"
)

func TestClassifyLoginError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.OutcomeClass
	}{
		{"530 reply", errors.New("530 Login incorrect."), domain.OutcomeAuthFailure},
		{"login incorrect", errors.New("login incorrect"), domain.OutcomeAuthFailure},
		{"not logged in", errors.New("530 Not logged in"), domain.OutcomeAuthFailure},
		{"permission denied", errors.New("permission denied"), domain.OutcomeAuthFailure},
		{"account locked", errors.New("account locked, contact admin"), domain.OutcomeAuthFailure},
		{"server closed session", errors.New("EOF"), domain.OutcomeAuthFailure},
		{"read timeout", errors.New("read tcp: i/o timeout"), domain.OutcomeTimeout},
		{"broken pipe", errors.New("write: broken pipe"), domain.OutcomeNetworkError},
		{"connection reset", errors.New("write: connection reset by peer"), domain.OutcomeNetworkError},
		{"unknown reply", errors.New("421 Service not available"), domain.OutcomeNetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyLoginError(tt.err)
			testutil.AssertEqual(t, got.Class, tt.want, "classification should match")
		})
	}
}

func TestClassifyDialError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.OutcomeClass
	}{
		{"dial timeout", errors.New("dial tcp 10.0.0.1:21: i/o timeout"), domain.OutcomeTimeout},
		{"refused", errors.New("dial tcp 10.0.0.1:21: connect: connection refused"), domain.OutcomeNetworkError},
		{"banner eof", errors.New("EOF"), domain.OutcomeNetworkError},
		{"no such host", errors.New("lookup nope.invalid: no such host"), domain.OutcomeNetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyDialError(tt.err)
			testutil.AssertEqual(t, got.Class, tt.want, "classification should match")
		})
	}
}
