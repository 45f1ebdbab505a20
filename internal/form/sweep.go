package form

import (
	"log"
	"strings"

	"github.com/tebeka/selenium"

	"github.com/Affan1415/auto-apply/internal/browser"
)

// SweepOptions tunes the residual pass over fields the targeted sequence
// did not cover.
type SweepOptions struct {
	// Placeholder is typed into unknown empty text inputs.
	Placeholder string
}

// DefaultPlaceholder is the neutral affirmative used for unknown short-text
// questions.
const DefaultPlaceholder = "Yes"

// SweepResidual handles the long tail of unknown controls: empty text
// inputs get a neutral placeholder, yes/no-shaped controls get the
// conservative ChooseYesNo answer. Every failure is absorbed — the sweep
// exists so one odd widget can't sink an attempt.
func (r *Resolver) SweepResidual(opts SweepOptions) (filled int) {
	if opts.Placeholder == "" {
		opts.Placeholder = DefaultPlaceholder
	}

	filled += r.sweepTextInputs(opts.Placeholder)
	filled += r.sweepSelects()
	filled += r.sweepRadioGroups()
	filled += r.sweepCheckboxes()
	return filled
}

func (r *Resolver) sweepTextInputs(placeholder string) (filled int) {
	els, _ := r.page.FindAll(selenium.ByCSSSelector,
		`input[type="text"], input:not([type]), textarea`)
	for _, el := range els {
		if !interactable(el) {
			continue
		}
		if v, _ := el.GetAttribute("value"); strings.TrimSpace(v) != "" {
			continue
		}
		if r.ownedByTargetedPass(el) {
			continue
		}
		if err := fillNative(el, placeholder); err != nil {
			if _, jerr := r.page.ExecScript(setValueScript, []interface{}{el, placeholder}); jerr != nil {
				log.Printf("[form] sweep input: %v", err)
				continue
			}
		}
		filled++
	}
	return filled
}

// ownedByTargetedPass guesses whether an input belongs to one of the fields
// the targeted sequence handles, by name/id/placeholder fragment.
func (r *Resolver) ownedByTargetedPass(el browser.Element) bool {
	for _, attr := range []string{"name", "id", "placeholder", "aria-label"} {
		v, err := el.GetAttribute(attr)
		if err != nil || v == "" {
			continue
		}
		lv := strings.ToLower(v)
		for _, frag := range knownFieldFragments {
			if strings.Contains(lv, frag) {
				return true
			}
		}
	}
	return false
}

func (r *Resolver) sweepSelects() (filled int) {
	els, _ := r.page.FindAll(selenium.ByCSSSelector, `select`)
	for _, el := range els {
		if !interactable(el) {
			continue
		}
		// a selection already made (index > 0) is left alone
		if raw, err := r.page.ExecScript(`return arguments[0].selectedIndex;`, []interface{}{el}); err == nil {
			if idx, ok := asInt(raw); ok && idx > 0 {
				continue
			}
		}
		texts, err := r.OptionTexts(el)
		if err != nil {
			continue
		}
		if !looksBoolean(texts) {
			continue
		}
		idx := ChooseYesNo(texts, r.LabelText(el))
		if idx < 0 {
			continue
		}
		if err := r.SelectByIndex(el, idx); err != nil {
			log.Printf("[form] sweep select: %v", err)
			continue
		}
		filled++
	}
	return filled
}

// sweepRadioGroups answers each radio group once, keyed by the name attr.
func (r *Resolver) sweepRadioGroups() (filled int) {
	els, _ := r.page.FindAll(selenium.ByCSSSelector, `input[type="radio"]`)

	groups := make(map[string][]browser.Element)
	var order []string
	for _, el := range els {
		n, err := el.GetAttribute("name")
		if err != nil || n == "" {
			continue
		}
		if _, seen := groups[n]; !seen {
			order = append(order, n)
		}
		groups[n] = append(groups[n], el)
	}

	for _, n := range order {
		members := groups[n]

		if anySelected(members) {
			continue
		}

		labels := make([]string, len(members))
		var context strings.Builder
		context.WriteString(n)
		for i, m := range members {
			labels[i] = r.LabelText(m)
			context.WriteString(" ")
			context.WriteString(labels[i])
		}

		idx := ChooseYesNo(labels, context.String())
		if idx < 0 {
			continue
		}
		if err := r.page.Click(members[idx]); err != nil {
			log.Printf("[form] sweep radio group %q: %v", n, err)
			continue
		}
		filled++
	}
	return filled
}

func (r *Resolver) sweepCheckboxes() (filled int) {
	els, _ := r.page.FindAll(selenium.ByCSSSelector, `input[type="checkbox"]`)
	for _, el := range els {
		if !interactable(el) {
			continue
		}
		if sel, _ := el.IsSelected(); sel {
			continue
		}
		label := r.LabelText(el)
		// only check boxes we understand: work authorization and
		// consent/agreement acknowledgments
		if !IsWorkAuthorization(label) && !containsAny(label, []string{"agree", "terms", "consent", "acknowledge"}) {
			continue
		}
		if IsSelfIdentification(label) {
			continue
		}
		if err := r.page.Click(el); err != nil {
			log.Printf("[form] sweep checkbox: %v", err)
			continue
		}
		filled++
	}
	return filled
}

// looksBoolean is true when a select reads like a yes/no question rather
// than a long enumeration (country lists, years, ...).
func looksBoolean(options []string) bool {
	if len(options) == 0 || len(options) > 6 {
		return false
	}
	for _, o := range options {
		if IsAffirmative(o) || IsNegative(o) {
			return true
		}
	}
	return false
}

func anySelected(els []browser.Element) bool {
	for _, el := range els {
		if sel, _ := el.IsSelected(); sel {
			return true
		}
	}
	return false
}

func interactable(el browser.Element) bool {
	if shown, _ := el.IsDisplayed(); !shown {
		return false
	}
	if enabled, _ := el.IsEnabled(); !enabled {
		return false
	}
	return true
}

func asInt(raw interface{}) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
