package run_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"github.com/Affan1415/auto-apply/internal/config"
	"github.com/Affan1415/auto-apply/internal/domain"
	"github.com/Affan1415/auto-apply/internal/run"
	"github.com/Affan1415/auto-apply/internal/store"
)

func newCoordinator(t *testing.T) (*run.Coordinator, *store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	cfg := config.Default()
	cfg.App.DataDir = dir
	return run.New(cfg, st, nil, nil), st, dir
}

func TestRunOnceStopsOnCancelledContext(t *testing.T) {
	coord, st, _ := newCoordinator(t)
	if err := st.UpsertUser(context.Background(), domain.UserProfile{ID: "u1"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := coord.RunOnce(ctx, "u1")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if coord.Status().Running {
		t.Errorf("status still reports running after the pass returned")
	}
}

func TestRunOnceSkipsWhenLockHeldElsewhere(t *testing.T) {
	coord, _, dir := newCoordinator(t)

	other := flock.New(filepath.Join(dir, "autoapply.lock"))
	locked, err := other.TryLock()
	if err != nil || !locked {
		t.Fatalf("acquire lock: locked=%v err=%v", locked, err)
	}
	defer func() { _ = other.Unlock() }()

	if err := coord.RunOnce(context.Background(), ""); !errors.Is(err, run.ErrRunActive) {
		t.Fatalf("err = %v, want ErrRunActive while the lock file is held", err)
	}
	if coord.Status().Running {
		t.Errorf("skipped run left status running")
	}
}
