// Tests for the notification sinks. The webhook sink runs against a
// local httptest server; the exec sink runs real but trivial commands.
package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"runtime"
	"sync/atomic"
	"testing"

	"tools.zach/dev/tend/internal/config"
)

// ///////////////////////////////////////////////
// Sink Construction
// ///////////////////////////////////////////////

func TestNewSelectsSink(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.NotifyConfig
		ok   bool
	}{
		{"exec", config.NotifyConfig{Sink: "exec"}, true},
		{"log", config.NotifyConfig{Sink: "log"}, true},
		{"webhook", config.NotifyConfig{Sink: "webhook", WebhookURL: "https://example.com/hook"}, true},
		{"webhook missing url", config.NotifyConfig{Sink: "webhook"}, false},
		{"unknown", config.NotifyConfig{Sink: "carrier-pigeon"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := New(tt.cfg)
			if tt.ok && (err != nil || n == nil) {
				t.Errorf("New(%+v) = (%v, %v), want a notifier", tt.cfg, n, err)
			}
			if !tt.ok && err == nil {
				t.Errorf("New(%+v) succeeded, want error", tt.cfg)
			}
		})
	}
}

// ///////////////////////////////////////////////
// Webhook Sink
// ///////////////////////////////////////////////

func TestWebhookSend(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %s, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL)
	if err := wh.Send(context.Background(), "tend needs attention", "10 days idle"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got.Title != "tend needs attention" || got.Body != "10 days idle" {
		t.Errorf("payload = %+v", got)
	}
}

func TestWebhookNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL)
	if err := wh.Send(context.Background(), "t", "b"); err == nil {
		t.Error("Send returned nil for a 403 response")
	}
}

func TestWebhookRetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL)
	if err := wh.Send(context.Background(), "t", "b"); err != nil {
		t.Fatalf("Send after transient 503: %v", err)
	}
	if calls.Load() < 2 {
		t.Errorf("server saw %d calls, want a retry", calls.Load())
	}
}

// ///////////////////////////////////////////////
// Exec Sink
// ///////////////////////////////////////////////

func TestExecSubstitutesPlaceholders(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on /bin/sh")
	}

	out := t.TempDir() + "/msg"
	e := NewExec([]string{"sh", "-c", `printf '%s|%s' "$0" "$1" > ` + out, "{title}", "{body}"})
	if err := e.Send(context.Background(), "hello", "world"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello|world" {
		t.Errorf("command received %q, want %q", data, "hello|world")
	}
}

func TestExecCommandFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on /bin/sh")
	}

	e := NewExec([]string{"sh", "-c", "exit 3"})
	if err := e.Send(context.Background(), "t", "b"); err == nil {
		t.Error("Send returned nil for a failing command")
	}
}

// ///////////////////////////////////////////////
// Log Sink
// ///////////////////////////////////////////////

func TestLogSinkAlwaysSucceeds(t *testing.T) {
	if err := NewLog().Send(context.Background(), "t", "b"); err != nil {
		t.Errorf("log sink Send: %v", err)
	}
}
