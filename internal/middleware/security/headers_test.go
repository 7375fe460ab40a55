package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func applyDefaults(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(rec, req)
	return rec
}

func TestDefaultHeaders(t *testing.T) {
	rec := applyDefaults(httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
		"Cache-Control":           "no-store",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
	}
	for name, value := range want {
		if got := rec.Header().Get(name); got != value {
			t.Errorf("%s = %q, want %q", name, got, value)
		}
	}
}

func TestHSTSOnlyOverTLS(t *testing.T) {
	plain := applyDefaults(httptest.NewRequest(http.MethodGet, "/", nil))
	if got := plain.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS on plain HTTP = %q, want empty", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.TLS = &tls.ConnectionState{}
	secure := applyDefaults(req)
	if got := secure.Header().Get("Strict-Transport-Security"); got != "max-age=31536000; includeSubDomains; preload" {
		t.Errorf("HSTS = %q", got)
	}
}
