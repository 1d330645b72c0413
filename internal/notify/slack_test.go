package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hamed0406/uptimehistory/internal/domain"
)

func TestSlack_OK(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		got = payload["text"]
		w.WriteHeader(200)
	}))
	defer ts.Close()

	s := NewSlack(ts.URL)
	if s == nil {
		t.Fatal("expected slack client")
	}
	e := Event{Site: "https://example.com", From: domain.StatusAvailable, To: domain.StatusUnavailable, Timestamp: 0}
	if err := s.Notify(context.Background(), e); err != nil {
		t.Fatalf("send err: %v", err)
	}
	if !strings.HasPrefix(got, "*🔴 Target DOWN*\n") || !strings.Contains(got, "URL: https://example.com") {
		t.Fatalf("payload not as expected: %q", got)
	}
}

func TestSlack_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer ts.Close()

	s := NewSlack(ts.URL)
	if err := s.Send(context.Background(), "X", "Y"); err == nil {
		t.Fatalf("expected error on non-2xx")
	}
}

func TestSlack_DisabledWithoutWebhook(t *testing.T) {
	if s := NewSlack(""); s != nil {
		t.Fatalf("expected nil slack for empty webhook")
	}
	var s *Slack
	if err := s.Send(context.Background(), "X", "Y"); err == nil {
		t.Fatalf("nil slack should refuse to send")
	}
}
