package form

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Affan1415/auto-apply/internal/browser"
)

// ErrFieldNotFound reports that no locator strategy matched. Callers treat
// this as non-fatal: a missing field never aborts an attempt.
var ErrFieldNotFound = errors.New("field not found")

// Page is what the resolver needs from the navigator. *browser.Session
// satisfies it; tests supply fakes.
type Page interface {
	FindAll(by, value string) ([]browser.Element, error)
	FirstInteractable(by, value string) (browser.Element, error)
	Click(el browser.Element) error
	ExecScript(script string, args []interface{}) (interface{}, error)
	DismissOverlays()
}

type Resolver struct {
	page Page
}

func NewResolver(page Page) *Resolver {
	return &Resolver{page: page}
}

// Resolve tries each locator strategy in order and returns the first
// visible, enabled match.
func (r *Resolver) Resolve(t Target) (browser.Element, error) {
	for _, loc := range t.Locators {
		el, err := r.page.FirstInteractable(loc.By, loc.Value)
		if err == nil {
			return el, nil
		}
	}
	return nil, fmt.Errorf("%w: %s (%d strategies)", ErrFieldNotFound, t.Name, len(t.Locators))
}

// Fill writes value into the element behind t. Overlays are dismissed before
// the attempt; when the native Clear+SendKeys path fails the value is
// assigned programmatically with an input/change dispatch so framework-bound
// inputs still register it.
func (r *Resolver) Fill(t Target, value string) error {
	if strings.TrimSpace(value) == "" {
		return nil // nothing to type; not a failure
	}

	el, err := r.Resolve(t)
	if err != nil {
		return err
	}

	r.page.DismissOverlays()

	if err := fillNative(el, value); err == nil {
		return nil
	}

	if _, err := r.page.ExecScript(setValueScript, []interface{}{el, value}); err != nil {
		return fmt.Errorf("fill %s: %w", t.Name, err)
	}
	return nil
}

func fillNative(el browser.Element, value string) error {
	if err := el.Clear(); err != nil {
		return err
	}
	return el.SendKeys(value)
}

// setValueScript is the alternate interaction path: assign the value and
// fire the events a change handler would expect.
const setValueScript = `
var el = arguments[0], v = arguments[1];
el.value = v;
el.dispatchEvent(new Event('input', {bubbles: true}));
el.dispatchEvent(new Event('change', {bubbles: true}));
`

// FillLogged fills and absorbs the error, logging per-field. A missing or
// unfillable field never aborts the population sequence.
func (r *Resolver) FillLogged(t Target, value string) {
	if err := r.Fill(t, value); err != nil {
		log.Printf("[form] %s: %v", t.Name, err)
	}
}

// SelectByText sets a <select> element to the option whose text best matches
// want (case-insensitive substring), dispatching a change event.
func (r *Resolver) SelectByText(el browser.Element, want string) error {
	texts, err := r.OptionTexts(el)
	if err != nil {
		return err
	}
	idx := -1
	lw := strings.ToLower(strings.TrimSpace(want))
	for i, t := range texts {
		if strings.Contains(strings.ToLower(t), lw) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("no option matching %q", want)
	}
	return r.SelectByIndex(el, idx)
}

// OptionTexts returns the visible text of every option in a <select>.
func (r *Resolver) OptionTexts(el browser.Element) ([]string, error) {
	raw, err := r.page.ExecScript(
		`return Array.prototype.map.call(arguments[0].options, function(o){ return o.textContent.trim(); });`,
		[]interface{}{el})
	if err != nil {
		return nil, err
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected options payload %T", raw)
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		s, _ := it.(string)
		out = append(out, s)
	}
	return out, nil
}

// SelectByIndex sets selectedIndex programmatically and fires change.
func (r *Resolver) SelectByIndex(el browser.Element, idx int) error {
	_, err := r.page.ExecScript(`
var el = arguments[0];
el.selectedIndex = arguments[1];
el.dispatchEvent(new Event('change', {bubbles: true}));
`, []interface{}{el, idx})
	return err
}

// LabelText returns the text a human would read next to el: an associated
// <label>, else the closest label-ish ancestor text, else the element's own
// attributes.
func (r *Resolver) LabelText(el browser.Element) string {
	raw, err := r.page.ExecScript(labelTextScript, []interface{}{el})
	if err == nil {
		if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	// attribute fallback when the DOM walk yields nothing
	for _, attr := range []string{"aria-label", "placeholder", "name", "id", "value"} {
		if v, err := el.GetAttribute(attr); err == nil && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

const labelTextScript = `
var el = arguments[0];
if (el.labels && el.labels.length > 0) { return el.labels[0].textContent; }
var n = el.closest('label');
if (n) { return n.textContent; }
n = el.closest('fieldset');
if (n) {
  var lg = n.querySelector('legend');
  if (lg) { return lg.textContent; }
}
n = el.closest('div,li');
return n ? n.textContent.slice(0, 300) : '';
`
