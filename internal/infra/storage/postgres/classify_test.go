package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/retry"
)

func TestClassifyWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect retry.Class
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, retry.Transient},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, retry.Transient},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, retry.Transient},
		{"cannot connect now", &pgconn.PgError{Code: "57P03"}, retry.Transient},
		{"too many connections", &pgconn.PgError{Code: "53300"}, retry.Transient},
		{"disk full on server", &pgconn.PgError{Code: "53100"}, retry.Transient},
		{"connection failure", &pgconn.PgError{Code: "08006"}, retry.Transient},
		{"not-null violation", &pgconn.PgError{Code: "23502"}, retry.Permanent},
		{"check violation", &pgconn.PgError{Code: "23514"}, retry.Permanent},
		{"invalid text representation", &pgconn.PgError{Code: "22P02"}, retry.Permanent},
		{"insufficient privilege", &pgconn.PgError{Code: "42501"}, retry.Permanent},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, retry.Permanent},
		{"invalid password", &pgconn.PgError{Code: "28P01"}, retry.Permanent},
		{"wrapped pg error", errors.Join(errors.New("exec"), &pgconn.PgError{Code: "40001"}), retry.Transient},
		{"plain network error", errors.New("connection reset by peer"), retry.Transient},
		{"context canceled", context.Canceled, retry.Permanent},
		{"deadline exceeded", context.DeadlineExceeded, retry.Permanent},
	}

	for _, tt := range tests {
		if got := ClassifyWriteError(tt.err); got != tt.expect {
			t.Errorf("%s: ClassifyWriteError = %v, want %v", tt.name, got, tt.expect)
		}
	}
}
