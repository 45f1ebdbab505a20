// Package run coordinates one full pass: users → discovery → filter →
// application, with pacing between submissions and a global
// single-run-in-flight guard.
package run

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/Affan1415/auto-apply/internal/answer"
	"github.com/Affan1415/auto-apply/internal/apply"
	"github.com/Affan1415/auto-apply/internal/browser"
	"github.com/Affan1415/auto-apply/internal/config"
	"github.com/Affan1415/auto-apply/internal/discover"
	"github.com/Affan1415/auto-apply/internal/domain"
	"github.com/Affan1415/auto-apply/internal/events"
	"github.com/Affan1415/auto-apply/internal/filter"
	"github.com/Affan1415/auto-apply/internal/store"
)

// ErrRunActive means a run is already in flight; the trigger is skipped,
// never queued.
var ErrRunActive = errors.New("run already active")

type Coordinator struct {
	cfg   config.Config
	store *store.Store
	gen   answer.Generator
	hub   *events.Hub

	running  atomic.Bool
	fileLock *flock.Flock
	status   atomic.Value // Status
}

func New(cfg config.Config, st *store.Store, gen answer.Generator, hub *events.Hub) *Coordinator {
	c := &Coordinator{
		cfg:      cfg,
		store:    st,
		gen:      gen,
		hub:      hub,
		fileLock: flock.New(filepath.Join(cfg.App.DataDir, "autoapply.lock")),
	}
	c.status.Store(Status{})
	return c
}

func (c *Coordinator) Status() Status {
	return c.status.Load().(Status)
}

// RunOnce executes one pass. userID narrows the pass to one user; empty
// means every eligible user. Returns ErrRunActive when the guard is held —
// in-process or by another process via the lock file.
func (c *Coordinator) RunOnce(ctx context.Context, userID string) error {
	if !c.running.CompareAndSwap(false, true) {
		log.Printf("[run] skipped: already running")
		return ErrRunActive
	}
	defer c.running.Store(false)

	locked, err := c.fileLock.TryLock()
	if err == nil && !locked {
		log.Printf("[run] skipped: lock held by another process")
		return ErrRunActive
	}
	if err != nil {
		log.Printf("[run] lock file: %v (continuing unlocked)", err)
	} else {
		defer func() { _ = c.fileLock.Unlock() }()
	}

	runID := uuid.NewString()
	started := time.Now()
	c.setStatus(func(st *Status) {
		st.Running = true
		st.LastRunAt = started.Format(time.RFC3339)
	})
	c.publish(runID, "run_started", map[string]any{"user_id": userID})

	applied, runErr := c.pass(ctx, runID, userID)

	c.setStatus(func(st *Status) {
		st.Running = false
		st.LastApplied = applied
		if runErr != nil {
			st.LastError = runErr.Error()
		} else {
			st.LastError = ""
			st.LastOkAt = time.Now().Format(time.RFC3339)
		}
	})
	c.publish(runID, "run_finished", map[string]any{
		"applied":  applied,
		"duration": time.Since(started).String(),
	})

	if runErr != nil {
		log.Printf("[run] finished with error: %v", runErr)
	} else {
		log.Printf("[run] ok applied=%d took=%s", applied, time.Since(started).Round(time.Second))
	}
	return runErr
}

func (c *Coordinator) pass(ctx context.Context, runID, userID string) (applied int, err error) {
	var users []domain.UserProfile
	if userID != "" {
		u, err := c.store.GetUser(ctx, userID)
		if err != nil {
			return 0, fmt.Errorf("load user %s: %w", userID, err)
		}
		users = []domain.UserProfile{u}
	} else {
		var lerr error
		users, lerr = c.store.ListEligibleUsers(ctx)
		if lerr != nil {
			return 0, fmt.Errorf("list users: %w", lerr)
		}
	}
	if len(users) == 0 {
		log.Printf("[run] no eligible users")
		return 0, nil
	}

	// users are strictly sequential: one browser session at a time
	for _, user := range users {
		if ctx.Err() != nil {
			return applied, ctx.Err()
		}
		n, uerr := c.runUser(ctx, runID, user)
		applied += n
		if uerr != nil {
			// one user's failure never aborts the pass
			log.Printf("[run] user %s: %v", user.ID, uerr)
			continue
		}
		if err := c.store.UpdateLastRun(ctx, user.ID); err != nil {
			log.Printf("[run] update last run %s: %v", user.ID, err)
		}
	}
	return applied, nil
}

func (c *Coordinator) runUser(ctx context.Context, runID string, user domain.UserProfile) (applied int, err error) {
	session, err := browser.Open(c.cfg)
	if err != nil {
		return 0, fmt.Errorf("open browser: %w", err)
	}
	// the session must be released on every exit path
	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.Printf("[run] close session: %v", cerr)
		}
	}()

	query := user.SearchQuery
	if query == "" {
		query = c.cfg.Search.DefaultQuery
	}
	location := user.SearchLocation
	if location == "" {
		location = c.cfg.Search.DefaultLocation
	}

	stage := discover.New(session, c.cfg.Search.BaseURL)
	postings := stage.Discover(ctx, discover.Params{
		Query:    query,
		Location: location,
		Max:      c.cfg.Run.MaxPostings,
	})
	if len(postings) == 0 {
		log.Printf("[run] user %s: no postings discovered", user.ID)
		return 0, nil
	}

	rules := filter.FromProfile(user)
	eligible := postings[:0:0]
	for _, p := range postings {
		keep, reason := filter.Check(p, rules)
		if keep {
			eligible = append(eligible, p)
			continue
		}
		c.recordSkip(ctx, runID, user, p, reason)
	}
	log.Printf("[run] user %s: %d discovered, %d eligible", user.ID, len(postings), len(eligible))

	src := answer.NewSource(c.gen)
	applier := apply.New(c.store, session, src, c.store,
		time.Duration(c.cfg.Run.AttemptSeconds)*time.Second)

	for i, posting := range eligible {
		if ctx.Err() != nil {
			return applied, ctx.Err()
		}
		// full randomized pause between submissions, however long the
		// previous attempt took
		if i > 0 {
			if err := sleepCtx(ctx, pacingDelay(c.cfg.Run.PacingMinMs, c.cfg.Run.PacingMaxMs)); err != nil {
				return applied, err
			}
		}

		rec, aerr := applier.Apply(ctx, user, posting)
		if aerr != nil {
			// ledger or store trouble; the posting loop continues
			log.Printf("[run] attempt %s: %v", posting.URL, aerr)
			continue
		}
		if rec.Outcome == domain.OutcomeApplied {
			applied++
		}
		c.publish(runID, "attempt_recorded", map[string]any{
			"user_id":  user.ID,
			"url":      rec.URL,
			"outcome":  rec.Outcome,
			"note":     rec.Note,
			"employer": rec.Employer,
		})
	}
	return applied, nil
}

// recordSkip writes the `skipped` terminal record for a filtered posting.
func (c *Coordinator) recordSkip(ctx context.Context, runID string, user domain.UserProfile, p domain.Posting, reason string) {
	rec := domain.AttemptRecord{
		UserID:   user.ID,
		URL:      p.URL,
		Title:    p.Title,
		Employer: p.Employer,
		Outcome:  domain.OutcomeSkipped,
		Note:     reason,
	}
	if _, err := c.store.AppendAttempt(ctx, rec); err != nil {
		log.Printf("[run] record skip %s: %v", p.URL, err)
		return
	}
	c.publish(runID, "attempt_recorded", map[string]any{
		"user_id": user.ID,
		"url":     p.URL,
		"outcome": domain.OutcomeSkipped,
		"note":    reason,
	})
}

// pacingDelay is the pause inserted between submissions: the configured
// floor plus uniform jitter up to the ceiling.
func pacingDelay(minMs, maxMs int) time.Duration {
	d := time.Duration(minMs) * time.Millisecond
	if jitter := maxMs - minMs; jitter > 0 {
		d += time.Duration(rand.Int63n(int64(jitter))) * time.Millisecond
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *Coordinator) setStatus(mut func(*Status)) {
	st := c.status.Load().(Status)
	mut(&st)
	c.status.Store(st)
}

func (c *Coordinator) publish(runID, typ string, data any) {
	if c.hub == nil {
		return
	}
	c.hub.Publish(events.Make(runID, typ, data))
}
