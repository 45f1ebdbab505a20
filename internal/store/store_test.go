package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Affan1415/auto-apply/internal/domain"
	"github.com/Affan1415/auto-apply/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// ---- users ------------------------------------------------------------

func TestUpsertAndGetUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := domain.UserProfile{
		ID:                   "u1",
		FullName:             "Pat Doe",
		Email:                "pat@example.com",
		Phone:                "+1 555 0100",
		BlacklistedCompanies: "Acme, Initech",
		ExcludeClearance:     true,
		SearchQuery:          "golang developer",
	}
	if err := s.UpsertUser(ctx, p); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FullName != "Pat Doe" || got.Email != "pat@example.com" {
		t.Errorf("got %+v", got)
	}
	if !got.ExcludeClearance {
		t.Errorf("ExcludeClearance lost in round trip")
	}
	if got.LastRunAt != nil {
		t.Errorf("fresh user has LastRunAt %v", got.LastRunAt)
	}

	// second upsert updates in place
	p.Email = "new@example.com"
	if err := s.UpsertUser(ctx, p); err != nil {
		t.Fatalf("upsert again: %v", err)
	}
	got, _ = s.GetUser(ctx, "u1")
	if got.Email != "new@example.com" {
		t.Errorf("email = %q after update", got.Email)
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetUser(context.Background(), "nope")
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestListEligibleUsersOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"b", "a", "c"} {
		if err := s.UpsertUser(ctx, domain.UserProfile{ID: id}); err != nil {
			t.Fatalf("upsert %s: %v", id, err)
		}
	}
	users, err := s.ListEligibleUsers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 3 || users[0].ID != "a" || users[2].ID != "c" {
		t.Fatalf("users = %+v", users)
	}
}

func TestUpdateLastRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.UpsertUser(ctx, domain.UserProfile{ID: "u1"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.UpdateLastRun(ctx, "u1"); err != nil {
		t.Fatalf("update last run: %v", err)
	}
	got, _ := s.GetUser(ctx, "u1")
	if got.LastRunAt == nil {
		t.Fatalf("LastRunAt still nil")
	}
	if time.Since(*got.LastRunAt) > time.Minute {
		t.Errorf("LastRunAt = %v, want recent", got.LastRunAt)
	}
}

func TestStructuredResumeRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.UpsertUser(ctx, domain.UserProfile{ID: "u1"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// nothing stored yet
	rd, err := s.GetStructuredResume(ctx, "u1")
	if err != nil || rd != nil {
		t.Fatalf("got %+v, %v for empty resume", rd, err)
	}

	want := domain.ResumeData{
		Name:   "Pat Doe",
		Skills: []string{"Go", "SQL"},
		History: []domain.ResumeExperience{
			{Company: "Initech", Title: "Engineer", Period: "2021-2024"},
		},
	}
	if err := s.SetStructuredResume(ctx, "u1", want); err != nil {
		t.Fatalf("set: %v", err)
	}
	rd, err = s.GetStructuredResume(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rd == nil || rd.Name != "Pat Doe" || len(rd.History) != 1 {
		t.Fatalf("got %+v", rd)
	}
}

// ---- attempts ---------------------------------------------------------

func TestAppendAttemptAndPriorApplied(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	prior, err := s.HasPriorApplied(ctx, "u1", "https://x.test/j/1")
	if err != nil || prior {
		t.Fatalf("prior = %v, %v on empty ledger", prior, err)
	}

	rec, err := s.AppendAttempt(ctx, domain.AttemptRecord{
		UserID:  "u1",
		URL:     "https://x.test/j/1",
		Outcome: domain.OutcomeApplied,
		Note:    "application submitted",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if rec.ID == "" || rec.CreatedAt.IsZero() {
		t.Errorf("defaults not filled: %+v", rec)
	}

	prior, err = s.HasPriorApplied(ctx, "u1", "https://x.test/j/1")
	if err != nil || !prior {
		t.Fatalf("prior = %v, %v after applied record", prior, err)
	}

	// other user, same URL: independent
	prior, _ = s.HasPriorApplied(ctx, "u2", "https://x.test/j/1")
	if prior {
		t.Errorf("prior applied leaked across users")
	}
}

func TestAppendAttemptRejectsSecondApplied(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := domain.AttemptRecord{
		UserID:  "u1",
		URL:     "https://x.test/j/1",
		Outcome: domain.OutcomeApplied,
	}
	if _, err := s.AppendAttempt(ctx, rec); err != nil {
		t.Fatalf("first append: %v", err)
	}
	_, err := s.AppendAttempt(ctx, rec)
	if err == nil {
		t.Fatalf("second applied record for same (user, url) was accepted")
	}
	// the conflict is classified, not passed through as a raw driver error
	if !strings.Contains(err.Error(), "applied record already exists") {
		t.Errorf("unclassified conflict error: %v", err)
	}
}

func TestAppendAttemptAllowsRepeatedErrors(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := domain.AttemptRecord{
		UserID:  "u1",
		URL:     "https://x.test/j/1",
		Outcome: domain.OutcomeError,
		Note:    "navigation timeout",
	}
	for i := 0; i < 3; i++ {
		if _, err := s.AppendAttempt(ctx, rec); err != nil {
			t.Fatalf("error append %d: %v", i, err)
		}
		rec.ID = "" // fresh id per row
	}

	// error records never satisfy the duplicate check
	prior, err := s.HasPriorApplied(ctx, "u1", "https://x.test/j/1")
	if err != nil || prior {
		t.Fatalf("prior = %v, %v with only error records", prior, err)
	}

	// and an applied record can still follow
	rec.Outcome = domain.OutcomeApplied
	if _, err := s.AppendAttempt(ctx, rec); err != nil {
		t.Fatalf("applied after errors: %v", err)
	}
}

func TestAppendAttemptValidation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.AppendAttempt(ctx, domain.AttemptRecord{URL: "u", Outcome: domain.OutcomeError}); err == nil {
		t.Errorf("record without user_id was accepted")
	}
	if _, err := s.AppendAttempt(ctx, domain.AttemptRecord{UserID: "u1", URL: "u"}); err == nil {
		t.Errorf("record without outcome was accepted")
	}
}

func TestRecentAttemptsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		_, err := s.AppendAttempt(ctx, domain.AttemptRecord{
			UserID:    "u1",
			URL:       "https://x.test/j/" + string(rune('a'+i)),
			Outcome:   domain.OutcomeSkipped,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	recs, err := s.RecentAttempts(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d rows, want 2", len(recs))
	}
	if recs[0].URL != "https://x.test/j/c" || recs[1].URL != "https://x.test/j/b" {
		t.Errorf("order = %s, %s", recs[0].URL, recs[1].URL)
	}
}

// ---- documents --------------------------------------------------------

func TestDocumentRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ref, err := s.StoreGeneratedDocument(ctx, []byte("pdf bytes"), "pat-doe-resume.pdf")
	if err != nil || ref == "" {
		t.Fatalf("store: ref=%q err=%v", ref, err)
	}

	data, name, err := s.GetResumeBinary(ctx, ref)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != "pdf bytes" || name != "pat-doe-resume.pdf" {
		t.Errorf("got %q / %q", data, name)
	}

	// empty and unknown refs come back empty, not as errors
	data, _, err = s.GetResumeBinary(ctx, "")
	if err != nil || data != nil {
		t.Errorf("empty ref: data=%v err=%v", data, err)
	}
}
