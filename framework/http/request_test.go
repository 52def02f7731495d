package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	gohttp "github.com/km-arc/go-injector/framework/http"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newJSONRequest(t *testing.T, body string) *gohttp.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, "/parameters/db.host", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return gohttp.NewRequest(req)
}

func newGetRequest(t *testing.T, rawQuery string) *gohttp.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/services?"+rawQuery, nil)
	return gohttp.NewRequest(req)
}

// ── Bind ─────────────────────────────────────────────────────────────────────

func TestRequest_Bind(t *testing.T) {
	req := newJSONRequest(t, `{"value":"5432","type":"int"}`)

	var body struct {
		Value string `json:"value"`
		Type  string `json:"type"`
	}
	if err := req.Bind(&body); err != nil {
		t.Fatalf("Bind error: %v", err)
	}
	if body.Value != "5432" || body.Type != "int" {
		t.Errorf("got %+v", body)
	}
}

func TestRequest_Bind_Empty(t *testing.T) {
	req := newJSONRequest(t, "")

	var body map[string]any
	if err := req.Bind(&body); err == nil || err.Error() != "empty request body" {
		t.Errorf("got %v, want empty request body", err)
	}
}

func TestRequest_Bind_Invalid(t *testing.T) {
	req := newJSONRequest(t, `{"value":`)

	var body map[string]any
	if err := req.Bind(&body); err == nil {
		t.Error("expected a decode error")
	}
}

func TestRequest_Bind_TooLarge(t *testing.T) {
	req := newJSONRequest(t, `"`+strings.Repeat("x", 1<<20)+`"`)

	var body string
	if err := req.Bind(&body); err == nil || err.Error() != "request body too large" {
		t.Errorf("got %v, want request body too large", err)
	}
}

// ── Input ────────────────────────────────────────────────────────────────────

func TestRequest_Query(t *testing.T) {
	req := newGetRequest(t, "loaded=1")

	if got := req.Query("loaded"); got != "1" {
		t.Errorf("Query(loaded): got %q want 1", got)
	}
	if got := req.Query("missing", "fallback"); got != "fallback" {
		t.Errorf("Query(missing): got %q want fallback", got)
	}
}

func TestRequest_RouteParam(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/services/mailer", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("name", "mailer")
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	if got := gohttp.NewRequest(r).RouteParam("name"); got != "mailer" {
		t.Errorf("RouteParam: got %q want mailer", got)
	}
}

func TestRequest_BearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer secret", "secret"},
		{"Basic dXNlcg==", ""},
		{"", ""},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		if got := gohttp.NewRequest(r).BearerToken(); got != tt.want {
			t.Errorf("BearerToken(%q): got %q want %q", tt.header, got, tt.want)
		}
	}
}

func TestRequest_Meta(t *testing.T) {
	r := httptest.NewRequest(http.MethodDelete, "/parameters/db.host", nil)
	r.Header.Set("X-Request-Id", "abc")
	req := gohttp.NewRequest(r)

	if req.Method() != http.MethodDelete {
		t.Errorf("Method: got %q", req.Method())
	}
	if req.Path() != "/parameters/db.host" {
		t.Errorf("Path: got %q", req.Path())
	}
	if req.Header("X-Request-Id") != "abc" {
		t.Errorf("Header: got %q", req.Header("X-Request-Id"))
	}
	if req.Raw() != r {
		t.Error("Raw() should return the wrapped request")
	}
}
