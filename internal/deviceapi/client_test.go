package deviceapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newClientFor points a Client at a test server.
func newClientFor(ts *httptest.Server) *Client {
	return &Client{
		BaseURL:      ts.URL,
		HTTPClient:   ts.Client(),
		PollInterval: 10 * time.Millisecond,
	}
}

func TestMode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/mode" {
			t.Errorf("path = %s, want /api/mode", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(Mode{Mode: "connected", Addr: "192.168.1.23"})
	}))
	defer ts.Close()

	mode, err := newClientFor(ts).Mode(context.Background())
	if err != nil {
		t.Fatalf("Mode() error: %v", err)
	}
	if mode.Mode != "connected" || mode.Addr != "192.168.1.23" {
		t.Errorf("mode = %+v", mode)
	}
}

func TestSubmitReturnsTicket(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/wifi" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if body["name"] != "office" || body["secret"] != "hunter22" {
			t.Errorf("body = %v", body)
		}
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{"ticket": "t-7"})
	}))
	defer ts.Close()

	ticket, err := newClientFor(ts).Submit(context.Background(), "office", "hunter22")
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if ticket != "t-7" {
		t.Errorf("ticket = %s, want t-7", ticket)
	}
}

func TestAwaitTicketPollsUntilResolved(t *testing.T) {
	polls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		polls++
		status := TicketStatus{State: "pending"}
		if polls >= 3 {
			status = TicketStatus{State: "success", Persisted: true}
		}
		_ = json.NewEncoder(w).Encode(status)
	}))
	defer ts.Close()

	status, err := newClientFor(ts).AwaitTicket(context.Background(), "t-7")
	if err != nil {
		t.Fatalf("AwaitTicket() error: %v", err)
	}
	if !status.Succeeded() || !status.Persisted {
		t.Errorf("status = %+v, want persisted success", status)
	}
	if polls < 3 {
		t.Errorf("polls = %d, want at least 3", polls)
	}
}

func TestAwaitTicketHonoursContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(TicketStatus{State: "pending"})
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newClientFor(ts).AwaitTicket(ctx, "t-7")
	if err == nil {
		t.Fatal("expected context error, got nil")
	}
}

func TestAPIErrorPrefersDeviceMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unknown ticket"})
	}))
	defer ts.Close()

	_, err := newClientFor(ts).Ticket(context.Background(), "t-nope")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "unknown ticket") {
		t.Errorf("error = %v, want device message included", err)
	}
}

func TestReset(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/reset" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	if err := newClientFor(ts).Reset(context.Background()); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
}
