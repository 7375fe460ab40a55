package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Glivan2903/minhagrana/internal/log"
)

func testLogger() *log.Logger {
	return log.New(log.DefaultConfig())
}

func TestWelcomePostsContactDetails(t *testing.T) {
	var got map[string]string
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWelcomeNotifier(srv.URL, testLogger())
	n.Welcome(context.Background(), "Maria Silva", "maria@example.com", "+5511999990000")

	if contentType != "application/json" {
		t.Errorf("content type = %q, want application/json", contentType)
	}
	want := map[string]string{
		"name":  "Maria Silva",
		"email": "maria@example.com",
		"phone": "+5511999990000",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("payload[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestWelcomeSwallowsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewWelcomeNotifier(srv.URL, testLogger())
	// Must not panic or propagate anything.
	n.Welcome(context.Background(), "Ana", "ana@example.com", "")
}

func TestWelcomeDisabledWithoutURL(t *testing.T) {
	n := NewWelcomeNotifier("", testLogger())
	if n.Enabled() {
		t.Fatal("notifier with empty URL should be disabled")
	}
	n.Welcome(context.Background(), "Ana", "ana@example.com", "")
}
