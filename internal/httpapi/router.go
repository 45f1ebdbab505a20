// Package httpapi is the local status surface: health, run status, a
// manual-run trigger, and an SSE event stream. It never exposes profile
// data beyond attempt summaries.
package httpapi

import (
	"context"
	"net/http"

	"github.com/Affan1415/auto-apply/internal/domain"
	"github.com/Affan1415/auto-apply/internal/events"
	"github.com/Affan1415/auto-apply/internal/run"
)

type Deps struct {
	Coordinator *run.Coordinator
	Hub         *events.Hub

	// TriggerRun starts a pass in the background; ErrRunActive means the
	// guard skipped it.
	TriggerRun func(userID string) error

	RecentAttempts func(ctx context.Context, limit int) ([]domain.AttemptRecord, error)
}

func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: healthHandler,
	}))

	rh := runHandler{deps: d}
	mux.HandleFunc("/run/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.Status,
	}))
	mux.HandleFunc("/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: rh.Trigger,
	}))
	mux.HandleFunc("/attempts", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.Attempts,
	}))

	eh := eventsHandler{hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}
