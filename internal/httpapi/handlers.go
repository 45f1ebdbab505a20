package httpapi

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/Affan1415/auto-apply/internal/run"
)

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type runHandler struct {
	deps Deps
}

func (h runHandler) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Coordinator.Status())
}

// Trigger starts a pass in the background. A pass already in flight is
// reported, not queued.
func (h runHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if err := h.deps.TriggerRun(userID); err != nil {
		if errors.Is(err, run.ErrRunActive) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"ok":  false,
				"msg": "already running",
			})
			return
		}
		log.Printf("[httpapi] trigger run: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"ok":  false,
			"msg": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"ok": true, "msg": "run started"})
}

func (h runHandler) Attempts(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 500 {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"ok":  false,
				"msg": "limit must be 1..500",
			})
			return
		}
		limit = n
	}
	recs, err := h.deps.RecentAttempts(r.Context(), limit)
	if err != nil {
		log.Printf("[httpapi] recent attempts: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"ok":  false,
			"msg": "query failed",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "attempts": recs})
}

type eventsHandler struct {
	hub Hub
}

// Hub is the subscriber surface the SSE handler needs.
type Hub interface {
	Subscribe() chan string
	Unsubscribe(chan string)
}

func (h eventsHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.hub.Subscribe()
	defer h.hub.Unsubscribe(ch)

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", evt)
			flusher.Flush()
		}
	}
}
