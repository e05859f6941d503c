package http_test

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	perr "glowdesk/internal/platform/errors"
	pnet "glowdesk/internal/platform/net"
	phttp "glowdesk/internal/platform/net/http"
)

func newReq(t *testing.T, rid string) *stdhttp.Request {
	t.Helper()
	req := httptest.NewRequest(stdhttp.MethodGet, "/", nil)
	if rid != "" {
		req = req.WithContext(pnet.WithRequest(req.Context(), rid))
	}
	return req
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestRespondOK(t *testing.T) {
	w := httptest.NewRecorder()
	RespondData := map[string]string{"hello": "world"}
	phttp.RespondOK(w, newReq(t, "rid-1"), RespondData)

	if w.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.StatusCode != stdhttp.StatusOK || env.RequestID != "rid-1" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestRespondError_MapsProjectCode(t *testing.T) {
	w := httptest.NewRecorder()
	phttp.RespondError(w, newReq(t, "rid-2"), perr.NotFoundf("routine %s missing", "r1"))

	if w.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Code != perr.ErrorCodeNotFound || env.Error == "" || env.RequestID != "rid-2" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestHandle_ReturnStyle(t *testing.T) {
	h := phttp.Handle(func(r *stdhttp.Request) phttp.Response {
		return phttp.Created(map[string]int{"n": 1})
	})
	w := httptest.NewRecorder()
	h(w, newReq(t, ""))
	if w.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}

	// error body drives the status
	h = phttp.Handle(func(r *stdhttp.Request) phttp.Response {
		return phttp.Error(perr.Validationf("bad mask"))
	})
	w = httptest.NewRecorder()
	h(w, newReq(t, ""))
	if w.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}

	// 204 writes no body
	h = phttp.Handle(func(r *stdhttp.Request) phttp.Response { return phttp.NoContent() })
	w = httptest.NewRecorder()
	h(w, newReq(t, ""))
	if w.Code != stdhttp.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("status = %d body = %q", w.Code, w.Body.String())
	}
}
