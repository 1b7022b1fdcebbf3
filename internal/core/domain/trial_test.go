// internal/core/domain/trial_test.go
package domain

import (
	"strings"
	"testing"

	"credprobe/internal/testutil"
)

func TestOutcomeClass_Retryable(t *testing.T) {
	tests := []struct {
		class     OutcomeClass
		retryable bool
		terminal  bool
	}{
		{OutcomeSuccess, false, true},
		{OutcomeAuthFailure, false, true},
		{OutcomeNetworkError, true, false},
		{OutcomeTimeout, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			testutil.AssertEqual(t, tt.class.Retryable(), tt.retryable, "retryable")
			testutil.AssertEqual(t, tt.class.Terminal(), tt.terminal, "terminal")
		})
	}
}

func TestOutcomeConstructors(t *testing.T) {
	testutil.AssertEqual(t, Success().Class, OutcomeSuccess, "success class")
	testutil.AssertEqual(t, AuthFailure("denied").Class, OutcomeAuthFailure, "auth failure class")
	testutil.AssertEqual(t, AuthFailure("denied").Detail, "denied", "auth failure detail")
	testutil.AssertEqual(t, NetworkError("refused").Class, OutcomeNetworkError, "network error class")
	testutil.AssertEqual(t, Timeout("deadline").Class, OutcomeTimeout, "timeout class")
}

func TestTrialDescriptor_Key(t *testing.T) {
	desc := TrialDescriptor{
		Target:     NewTarget("10.0.0.1", Service{Protocol: ProtocolSSH, Port: 22}),
		Service:    Service{Protocol: ProtocolSSH, Port: 22},
		Credential: Credential{Username: "root", Password: "toor"},
		Attempt:    1,
	}

	key := desc.Key()
	testutil.AssertEqual(t, key.Host, "10.0.0.1", "key host")
	testutil.AssertEqual(t, key.Protocol, ProtocolSSH, "key protocol")
	testutil.AssertEqual(t, key.Username, "root", "key username")
	testutil.AssertEqual(t, key.String(), "10.0.0.1/ssh/root", "key string")
}

func TestTrialDescriptor_Retry(t *testing.T) {
	desc := TrialDescriptor{Attempt: 1}
	retried := desc.Retry()

	testutil.AssertEqual(t, retried.Attempt, 2, "retry increments attempt")
	testutil.AssertEqual(t, desc.Attempt, 1, "original descriptor unchanged")
}

func TestCredential_StringMasksPassword(t *testing.T) {
	cred := Credential{Username: "admin", Password: "hunter2"}
	s := cred.String()

	testutil.AssertContains(t, s, "admin", "username visible")
	testutil.AssertContains(t, s, "*******", "password masked")
	testutil.AssertFalse(t, strings.Contains(s, "hunter2"), "password must not appear in clear")
}
