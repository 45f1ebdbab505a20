// Package apply drives one (user, posting) pair through the application
// state machine: duplicate check, navigation, form discovery, field
// population, resume attachment, submission, and outcome verification.
package apply

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/tebeka/selenium"

	"github.com/Affan1415/auto-apply/internal/browser"
	"github.com/Affan1415/auto-apply/internal/domain"
	"github.com/Affan1415/auto-apply/internal/form"
	"github.com/Affan1415/auto-apply/internal/resume"
)

// Ledger is the attempt ledger surface the stage needs. *store.Store
// satisfies it.
type Ledger interface {
	HasPriorApplied(ctx context.Context, userID, url string) (bool, error)
	AppendAttempt(ctx context.Context, rec domain.AttemptRecord) (domain.AttemptRecord, error)
}

// Navigator extends the form page surface with navigation and waiting.
// *browser.Session satisfies it.
type Navigator interface {
	form.Page
	Navigate(url string) error
	WaitAnyVisible(selectors []string, timeout time.Duration) (string, browser.Element, error)
	PageSource() (string, error)
}

// Answerer resolves a value for a semantic field.
type Answerer interface {
	Answer(ctx context.Context, label string, p domain.UserProfile) string
}

type Stage struct {
	ledger  Ledger
	nav     Navigator
	answers Answerer
	resumes resume.Store

	attemptTimeout time.Duration
	settleInterval time.Duration // between post-submit polls; shortened in tests
}

func New(ledger Ledger, nav Navigator, answers Answerer, resumes resume.Store, attemptTimeout time.Duration) *Stage {
	if attemptTimeout <= 0 {
		attemptTimeout = 60 * time.Second
	}
	return &Stage{
		ledger:         ledger,
		nav:            nav,
		answers:        answers,
		resumes:        resumes,
		attemptTimeout: attemptTimeout,
		settleInterval: 500 * time.Millisecond,
	}
}

const (
	formWait   = 10 * time.Second
	settleWait = 10 * time.Second
)

// Ordered candidates for the application form container.
var formContainerSelectors = []string{
	`[data-cy="application-form"]`,
	`form[id*="apply" i]`,
	`form[class*="apply" i]`,
	`form[action*="apply" i]`,
	`.application-form`,
	`#applyForm`,
}

var validationErrorSelectors = []string{
	`[class*="validation-error"]`,
	`.invalid-feedback`,
	`.field-error`,
	`.form-error`,
	`[aria-invalid="true"]`,
}

var successSelectors = []string{
	`[data-cy="application-submitted"]`,
	`.application-success`,
	`[class*="application-confirm" i]`,
	`[class*="post-apply" i]`,
}

var successPhrases = []string{
	"application submitted",
	"thank you for applying",
	"successfully applied",
	"your application has been received",
}

// Apply runs the full attempt for one posting and returns the terminal
// record. A non-duplicate terminal outcome is appended to the ledger exactly
// once before returning; a duplicate has no side effects at all.
func (s *Stage) Apply(ctx context.Context, user domain.UserProfile, posting domain.Posting) (domain.AttemptRecord, error) {
	rec := domain.AttemptRecord{
		UserID:   user.ID,
		URL:      posting.URL,
		Title:    posting.Title,
		Employer: posting.Employer,
	}

	prior, err := s.ledger.HasPriorApplied(ctx, user.ID, posting.URL)
	if err != nil {
		return rec, fmt.Errorf("duplicate check: %w", err)
	}
	if prior {
		rec.Outcome = domain.OutcomeDuplicate
		rec.Note = "already applied"
		log.Printf("[apply] duplicate %s -> %s", user.ID, posting.URL)
		return rec, nil
	}

	actx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
	attemptErr := s.attempt(actx, user, posting)
	cancel()

	// the attempt deadline overrides whatever error was in flight
	if attemptErr != nil && errors.Is(actx.Err(), context.DeadlineExceeded) {
		attemptErr = fmt.Errorf("%w: %v", ErrAttemptTimeout, attemptErr)
	}

	if attemptErr == nil {
		rec.Outcome = domain.OutcomeApplied
		rec.Note = "application submitted"
	} else {
		rec.Outcome = domain.OutcomeError
		rec.Note = note(attemptErr)
		rec.ErrorDetail = attemptErr.Error()
	}

	// ledger write must land even when the attempt context is spent
	pctx, pcancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer pcancel()
	stored, err := s.ledger.AppendAttempt(pctx, rec)
	if err != nil {
		return rec, fmt.Errorf("append attempt: %w", err)
	}

	log.Printf("[apply] %s %s -> %s (%s)", stored.Outcome, user.ID, posting.URL, stored.Note)
	return stored, nil
}

// attempt walks Navigate → LocateApplyControl → OpenForm → FillFields →
// AttachResume → Submit → VerifyOutcome. Only terminal-class errors return;
// field and upload trouble is absorbed en route.
func (s *Stage) attempt(ctx context.Context, user domain.UserProfile, posting domain.Posting) error {
	if err := s.nav.Navigate(posting.URL); err != nil {
		return fmt.Errorf("%w: %v", ErrNavigationTimeout, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.nav.DismissOverlays()

	if err := s.locateApplyControl(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, _, err := s.nav.WaitAnyVisible(formContainerSelectors, formWait); err != nil {
		return fmt.Errorf("%w: %v", ErrNoFormFound, err)
	}

	resolver := form.NewResolver(s.nav)
	s.fillFields(ctx, resolver, user)

	s.attachResume(ctx, resolver, user)
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.submitAndVerify(ctx, resolver)
}

// locateApplyControl finds and activates the primary apply control. A click
// blocked by an overlay gets one dismiss-and-retry.
func (s *Stage) locateApplyControl() error {
	resolver := form.NewResolver(s.nav)
	el, err := resolver.Resolve(form.ApplyControl)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoApplyControl, err)
	}
	if err := s.nav.Click(el); err != nil {
		s.nav.DismissOverlays()
		if err := s.nav.Click(el); err != nil {
			return fmt.Errorf("%w: click: %v", ErrNoApplyControl, err)
		}
	}
	return nil
}

// submitAndVerify clicks the submit control and watches the page settle.
// A validation indicator is terminal without a resubmit; no indicator either
// way within the window is classified as failure, not success.
func (s *Stage) submitAndVerify(ctx context.Context, resolver *form.Resolver) error {
	s.nav.DismissOverlays()

	el, err := resolver.Resolve(form.SubmitControl)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoSubmitControl, err)
	}
	if err := s.nav.Click(el); err != nil {
		return fmt.Errorf("%w: click: %v", ErrNoSubmitControl, err)
	}

	deadline := time.Now().Add(settleWait)
	for {
		for _, sel := range validationErrorSelectors {
			if _, err := s.nav.FirstInteractable(selenium.ByCSSSelector, sel); err == nil {
				return ErrValidationRejected
			}
		}
		for _, sel := range successSelectors {
			if _, err := s.nav.FirstInteractable(selenium.ByCSSSelector, sel); err == nil {
				return nil
			}
		}
		if html, err := s.nav.PageSource(); err == nil && containsAnyPhrase(html, successPhrases) {
			return nil
		}

		if time.Now().After(deadline) {
			return ErrNoSuccessIndicator
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		time.Sleep(s.settleInterval)
	}
}
