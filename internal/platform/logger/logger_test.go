package logger

import (
	"context"
	"strings"
	"testing"
)

func TestParseLevel_AllBranches(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"trace", "trace"},
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"fatal", "fatal"},
		{"panic", "panic"},
		{"", "debug"},
		{"   nonsense   ", "debug"},
	}
	for _, c := range cases {
		lvl := parseLevel(c.in)
		if strings.ToLower(lvl.String()) != c.want {
			t.Fatalf("parseLevel(%q) = %q, want %q", c.in, lvl, c.want)
		}
	}
}

func TestWithRequest_RoundTrip(t *testing.T) {
	ctx := WithRequest(context.Background(), "req-123")
	if v := ctx.Value(keyRequestID); v != "req-123" {
		t.Fatalf("request id not stored, got %v", v)
	}
	// empty id must not pollute the context
	ctx2 := WithRequest(context.Background(), "")
	if v := ctx2.Value(keyRequestID); v != nil {
		t.Fatalf("empty request id stored, got %v", v)
	}
}

func TestC_NeverNil(t *testing.T) {
	if C(context.Background()) == nil {
		t.Fatal("C returned nil logger")
	}
	if Named("") == nil || Named("x") == nil {
		t.Fatal("Named returned nil logger")
	}
}
