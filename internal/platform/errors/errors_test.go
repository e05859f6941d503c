package errors

import (
	stderrs "errors"
	"net/http"
	"testing"
)

func TestHTTPStatusCode_Mapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeDuplicateKey, http.StatusConflict},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{ErrorCode(9999), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%d) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestWrap_And_Root(t *testing.T) {
	base := stderrs.New("boom")
	wrapped := Wrap(base, ErrorCodeDB, "query failed")

	if got := Root(wrapped); got != base {
		t.Fatalf("Root = %v, want base", got)
	}
	if !IsCode(wrapped, ErrorCodeDB) {
		t.Fatalf("IsCode(DB) = false")
	}
	if wrapped.Error() != "query failed: boom" {
		t.Fatalf("Error() = %q", wrapped.Error())
	}
}

func TestWireFrom(t *testing.T) {
	if w := WireFrom(nil); w.Code != ErrorCodeUnknown || w.Message != "" {
		t.Fatalf("WireFrom(nil) = %+v, want zero", w)
	}

	w := WireFrom(Newf(ErrorCodeValidation, "bad %s", "mask"))
	if w.Code != ErrorCodeValidation || w.Message != "bad mask" {
		t.Fatalf("WireFrom = %+v", w)
	}

	// foreign errors map to Unknown
	w = WireFrom(stderrs.New("plain"))
	if w.Code != ErrorCodeUnknown || w.Message != "plain" {
		t.Fatalf("WireFrom(foreign) = %+v", w)
	}
}

func TestWithField_CopyOnWrite(t *testing.T) {
	orig := New(ErrorCodeValidation, "empty weekday mask")
	withF := WithField(orig, "frequency")

	e1, _ := As(orig)
	e2, _ := As(withF)
	if e1.Field() != "" {
		t.Fatalf("original mutated: field = %q", e1.Field())
	}
	if e2.Field() != "frequency" {
		t.Fatalf("field = %q, want frequency", e2.Field())
	}

	// foreign error is passed through untouched
	plain := stderrs.New("x")
	if WithField(plain, "f") != plain {
		t.Fatal("foreign error should be returned unchanged")
	}
}

func TestWrapIf(t *testing.T) {
	if WrapIf(nil, ErrorCodeDB, "m") != nil {
		t.Fatal("WrapIf(nil) should be nil")
	}
	if err := WrapIf(stderrs.New("x"), ErrorCodeDB, "m"); !IsCode(err, ErrorCodeDB) {
		t.Fatalf("WrapIf code = %v", CodeOf(err))
	}
}
