package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/retry"
)

// ClassifyWriteError maps database errors onto the retry taxonomy.
//
// Transient: lock contention, serialization/deadlock aborts, connection
// pressure and connection-level failures. Permanent: integrity violations
// (malformed or duplicate-constraint data beyond the natural key),
// permission and auth errors, anything syntactically broken. Unknown errors
// default to transient.
func ClassifyWriteError(err error) retry.Class {
	if err == nil {
		return retry.Transient
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return retry.Permanent
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", // serialization_failure
			"40P01", // deadlock_detected
			"55P03", // lock_not_available
			"57P03": // cannot_connect_now
			return retry.Transient
		}
		switch {
		case strings.HasPrefix(pgErr.Code, "53"): // insufficient_resources
			return retry.Transient
		case strings.HasPrefix(pgErr.Code, "08"): // connection_exception
			return retry.Transient
		case strings.HasPrefix(pgErr.Code, "23"): // integrity_constraint_violation
			return retry.Permanent
		case strings.HasPrefix(pgErr.Code, "22"): // data_exception (malformed values)
			return retry.Permanent
		case strings.HasPrefix(pgErr.Code, "42"): // syntax, undefined, 42501 permission
			return retry.Permanent
		case strings.HasPrefix(pgErr.Code, "28"): // invalid_authorization
			return retry.Permanent
		}
		return retry.Transient
	}

	// Driver-level failures (reset connections, timeouts) are worth retrying.
	return retry.Transient
}
