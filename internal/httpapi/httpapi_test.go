package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Affan1415/auto-apply/internal/config"
	"github.com/Affan1415/auto-apply/internal/domain"
	"github.com/Affan1415/auto-apply/internal/events"
	"github.com/Affan1415/auto-apply/internal/httpapi"
	"github.com/Affan1415/auto-apply/internal/run"
)

func testMux(t *testing.T, trigger func(string) error) *http.ServeMux {
	t.Helper()
	cfg := config.Default()
	cfg.App.DataDir = t.TempDir()
	return httpapi.NewMux(httpapi.Deps{
		Coordinator: run.New(cfg, nil, nil, events.NewHub()),
		Hub:         events.NewHub(),
		TriggerRun:  trigger,
		RecentAttempts: func(ctx context.Context, limit int) ([]domain.AttemptRecord, error) {
			return []domain.AttemptRecord{{ID: "a1", UserID: "u1", Outcome: domain.OutcomeApplied}}, nil
		},
	})
}

func TestHealth(t *testing.T) {
	mux := testMux(t, func(string) error { return nil })

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestRunStatusWrongMethod(t *testing.T) {
	mux := testMux(t, func(string) error { return nil })

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/run/status", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rr.Code)
	}
}

func TestTriggerRun(t *testing.T) {
	var gotUser string
	mux := testMux(t, func(userID string) error {
		gotUser = userID
		return nil
	})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/run?user=u1", nil))
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rr.Code)
	}
	if gotUser != "u1" {
		t.Errorf("user = %q", gotUser)
	}
}

func TestTriggerRunWhileActive(t *testing.T) {
	mux := testMux(t, func(string) error { return run.ErrRunActive })

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/run", nil))
	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rr.Code)
	}

	var body struct {
		OK  bool   `json:"ok"`
		Msg string `json:"msg"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.OK || body.Msg != "already running" {
		t.Errorf("body = %+v", body)
	}
}

func TestAttempts(t *testing.T) {
	mux := testMux(t, func(string) error { return nil })

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/attempts?limit=5", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var body struct {
		OK       bool                   `json:"ok"`
		Attempts []domain.AttemptRecord `json:"attempts"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Attempts) != 1 || body.Attempts[0].ID != "a1" {
		t.Errorf("attempts = %+v", body.Attempts)
	}
}

func TestEventsStreamConnects(t *testing.T) {
	hub := events.NewHub()
	cfg := config.Default()
	cfg.App.DataDir = t.TempDir()
	mux := httpapi.NewMux(httpapi.Deps{
		Coordinator: run.New(cfg, nil, nil, hub),
		Hub:         hub,
		TriggerRun:  func(string) error { return nil },
		RecentAttempts: func(ctx context.Context, limit int) ([]domain.AttemptRecord, error) {
			return nil, nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if ct := rr.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rr.Body.String(), ": connected") {
		t.Errorf("no initial comment in stream: %q", rr.Body.String())
	}

	// the handler unsubscribed on the way out; publishing must not panic
	hub.Publish(events.Make("r1", "run_started", nil))
}

func TestAttemptsBadLimit(t *testing.T) {
	mux := testMux(t, func(string) error { return nil })

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/attempts?limit=9999", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}
