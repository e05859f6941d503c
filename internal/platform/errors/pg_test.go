package errors

import (
	"context"
	stderrs "errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pgErr(code string) error { return &pgconn.PgError{Code: code, Message: "pg"} }

func TestDBErrorCode(t *testing.T) {
	cases := []struct {
		sqlstate string
		want     ErrorCode
	}{
		{"23505", ErrorCodeDuplicateKey},
		{"23503", ErrorCodeInvalidArgument},
		{"23502", ErrorCodeValidation},
		{"23514", ErrorCodeValidation},
		{"22001", ErrorCodeInvalidArgument},
		{"22P02", ErrorCodeInvalidArgument},
		{"40001", ErrorCodeDB},
		{"40P01", ErrorCodeDB},
		{"55P03", ErrorCodeDB},
		{"57P03", ErrorCodeUnavailable},
		{"XX000", ErrorCodeDB},
	}
	for _, c := range cases {
		got, ok := DBErrorCode(pgErr(c.sqlstate))
		if !ok || got != c.want {
			t.Fatalf("DBErrorCode(%s) = (%v,%v), want (%v,true)", c.sqlstate, got, ok, c.want)
		}
	}

	if _, ok := DBErrorCode(stderrs.New("not pg")); ok {
		t.Fatal("DBErrorCode should not match non-pg errors")
	}
}

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "m") != nil {
		t.Fatal("FromPostgres(nil) should be nil")
	}
	err := FromPostgres(pgErr("23505"), "insert occurrence")
	if !IsCode(err, ErrorCodeDuplicateKey) {
		t.Fatalf("code = %v, want duplicate key", CodeOf(err))
	}
	if !IsDuplicateKey(err) {
		t.Fatal("IsDuplicateKey through wrap = false")
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(nil) {
		t.Fatal("nil should not be retryable")
	}
	if IsRetryable(context.Canceled) || IsRetryable(context.DeadlineExceeded) {
		t.Fatal("local cancellation must not be retryable")
	}
	for _, code := range []string{"40001", "40P01", "55P03"} {
		if !IsRetryable(Wrap(pgErr(code), ErrorCodeDB, "tx")) {
			t.Fatalf("sqlstate %s should be retryable", code)
		}
	}
	if IsRetryable(pgErr("23505")) {
		t.Fatal("unique violation should not be retryable")
	}
	if !IsRetryable(stderrs.New("ERROR: deadlock detected")) {
		t.Fatal("text fallback should match deadlock")
	}
	if IsRetryable(stderrs.New("syntax error")) {
		t.Fatal("arbitrary errors should not be retryable")
	}
}
