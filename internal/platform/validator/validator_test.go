// internal/platform/validator/validator_test.go
package validator

import (
	"testing"

	"credprobe/internal/testutil"
)

func TestIsHostname(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"valid hostname", "host.lab.local", true},
		{"single label", "localhost", true},
		{"multi-level", "db01.prod.example.com", true},
		{"empty string", "", false},
		{"too long", string(make([]byte, 300)), false},
		{"ip address", "192.168.1.1", false},
		{"invalid chars", "host name", false},
		{"starts with hyphen", "-host.local", false},
		{"ends with hyphen", "host-.local", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsHostname(tt.input)
			testutil.AssertEqual(t, result, tt.expected, "hostname validation")
		})
	}
}

func TestIsHost(t *testing.T) {
	for _, h := range testutil.FixtureHosts {
		testutil.AssertTrue(t, IsHost(h), "fixture host should validate: "+h)
	}
	for _, h := range testutil.FixtureInvalidHosts {
		testutil.AssertFalse(t, IsHost(h), "invalid host should not validate: "+h)
	}
}

func TestIsPort(t *testing.T) {
	tests := []struct {
		port     int
		expected bool
	}{
		{1, true},
		{22, true},
		{65535, true},
		{0, false},
		{-1, false},
		{65536, false},
	}

	for _, tt := range tests {
		testutil.AssertEqual(t, IsPort(tt.port), tt.expected, "port validation")
	}
}

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Host.Local  ", "host.local"},
		{"example.com.", "example.com"},
		{"192.168.1.1", "192.168.1.1"},
	}

	for _, tt := range tests {
		testutil.AssertEqual(t, NormalizeHost(tt.input), tt.expected, "host normalization")
	}
}

func TestSplitHostPort(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantHost string
		wantPort int
		wantOK   bool
	}{
		{"bare host", "192.168.1.10", "192.168.1.10", 0, true},
		{"host with port", "192.168.1.10:2222", "192.168.1.10", 2222, true},
		{"hostname with port", "host.local:21", "host.local", 21, true},
		{"ipv6 without port", "2001:db8::1", "2001:db8::1", 0, true},
		{"bad port", "host.local:notaport", "", 0, false},
		{"port out of range", "host.local:70000", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port, ok := SplitHostPort(tt.input)
			testutil.AssertEqual(t, ok, tt.wantOK, "ok flag")
			if tt.wantOK {
				testutil.AssertEqual(t, host, tt.wantHost, "host")
				testutil.AssertEqual(t, port, tt.wantPort, "port")
			}
		})
	}
}
