package apply

import "errors"

// Terminal failure classes for one posting attempt. Field-level and
// upload-level failures are absorbed inside the fill/attach steps and never
// reach this taxonomy.
var (
	ErrNavigationTimeout  = errors.New("navigation timeout")
	ErrNoApplyControl     = errors.New("no apply control found")
	ErrNoFormFound        = errors.New("no application form available")
	ErrNoSubmitControl    = errors.New("no submit control found")
	ErrValidationRejected = errors.New("validation error")
	ErrNoSuccessIndicator = errors.New("no success indicator found")
	ErrAttemptTimeout     = errors.New("attempt timed out")
)

// note maps a terminal error onto the short ledger note.
func note(err error) string {
	switch {
	case errors.Is(err, ErrAttemptTimeout):
		return "attempt timed out"
	case errors.Is(err, ErrNavigationTimeout):
		return "navigation timeout"
	case errors.Is(err, ErrNoApplyControl):
		return "no apply control found"
	case errors.Is(err, ErrNoFormFound):
		return "no application form available"
	case errors.Is(err, ErrNoSubmitControl):
		return "no submit control found"
	case errors.Is(err, ErrValidationRejected):
		return "validation error"
	case errors.Is(err, ErrNoSuccessIndicator):
		return "no success indicator found"
	default:
		return "attempt failed"
	}
}
