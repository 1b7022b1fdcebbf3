// internal/testutil/fixtures.go
package testutil

// Fixture data para tests (valores primitivos solamente, sin dependencias de domain)

// FixtureHosts contiene hosts de prueba válidos.
var FixtureHosts = []string{
	"192.168.1.10",
	"10.0.0.1",
	"host.lab.local",
	"2001:db8::1",
}

// FixtureInvalidHosts contiene hosts inválidos.
var FixtureInvalidHosts = []string{
	"",
	"not a host",
	"999.999.1.1",
	"-invalid.local",
	"host..local",
}

// FixtureUsernames contiene usernames de prueba.
var FixtureUsernames = []string{
	"root",
	"admin",
	"operator",
}

// FixturePasswords contiene passwords de prueba.
var FixturePasswords = []string{
	"123456",
	"password",
	"admin123",
	"letmein",
}
