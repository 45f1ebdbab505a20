package browser

import (
	"time"

	"github.com/tebeka/selenium"
)

// Selectors for overlays that routinely block clicks on the target site.
// Ordered roughly by how often they appear.
var overlayDismissSelectors = []string{
	`button[id*="onetrust-accept"]`,
	`button[id*="cookie"][id*="accept"]`,
	`button[class*="cookie"][class*="accept"]`,
	`[aria-label="Accept cookies"]`,
	`[aria-label="Close"]`,
	`button[class*="modal"][class*="close"]`,
	`.modal-footer button.btn-primary`,
}

var overlayRemoveSelectors = []string{
	`.modal-backdrop`,
	`[class*="overlay-backdrop"]`,
}

// DismissOverlays clicks through known cookie banners and modal close
// controls, then strips leftover backdrops. Idempotent and bounded; safe to
// call before every interaction.
func (s *Session) DismissOverlays() {
	for _, sel := range overlayDismissSelectors {
		el, err := s.FirstInteractable(selenium.ByCSSSelector, sel)
		if err != nil {
			continue
		}
		if err := el.Click(); err != nil {
			continue
		}
		time.Sleep(200 * time.Millisecond)
	}

	for _, sel := range overlayRemoveSelectors {
		_, _ = s.wd.ExecuteScript(
			`document.querySelectorAll(arguments[0]).forEach(function(n){ n.remove(); });`,
			[]interface{}{sel})
	}
}
