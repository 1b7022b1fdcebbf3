package mysql

import (
	"errors"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"

	"credprobe/internal/core/domain"
	"credprobe/internal/testutil"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.OutcomeClass
	}{
		{
			name: "access denied",
			err:  &gomysql.MySQLError{Number: 1045, Message: "Access denied for user 'root'@'10.0.0.9'"},
			want: domain.OutcomeAuthFailure,
		},
		{
			name: "no privileges on database means authenticated",
			err:  &gomysql.MySQLError{Number: 1044, Message: "Access denied for user to database 'x'"},
			want: domain.OutcomeSuccess,
		},
		{
			name: "unknown database means authenticated",
			err:  &gomysql.MySQLError{Number: 1049, Message: "Unknown database 'x'"},
			want: domain.OutcomeSuccess,
		},
		{
			name: "account locked",
			err:  &gomysql.MySQLError{Number: 3118, Message: "Access denied; account is locked"},
			want: domain.OutcomeAuthFailure,
		},
		{
			name: "too many connections",
			err:  &gomysql.MySQLError{Number: 1040, Message: "Too many connections"},
			want: domain.OutcomeNetworkError,
		},
		{
			name: "host not allowed",
			err:  &gomysql.MySQLError{Number: 1130, Message: "Host is not allowed to connect"},
			want: domain.OutcomeNetworkError,
		},
		{
			name: "other server error",
			err:  &gomysql.MySQLError{Number: 1105, Message: "Unknown error"},
			want: domain.OutcomeNetworkError,
		},
		{
			name: "driver timeout",
			err:  errors.New("dial tcp 10.0.0.1:3306: i/o timeout"),
			want: domain.OutcomeTimeout,
		},
		{
			name: "connection refused",
			err:  errors.New("dial tcp 10.0.0.1:3306: connect: connection refused"),
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
