package form

import (
	"log"
	"strings"
)

// Fallbacks when the profile carries no phone or country. Kept from the
// original engine's fixed values; profile data wins when present.
const (
	fallbackPhone   = "(555) 012-3456"
	fallbackCountry = "United States"
)

// FillPhone sets the country selector and the phone input. Profile values
// take precedence; the fixed fallbacks only cover empty profiles. Both
// halves fail independently and non-fatally.
func (r *Resolver) FillPhone(phone, country string) {
	if strings.TrimSpace(country) == "" {
		country = fallbackCountry
	}
	if strings.TrimSpace(phone) == "" {
		phone = fallbackPhone
	}

	if el, err := r.Resolve(PhoneCountry); err == nil {
		if err := r.SelectByText(el, country); err != nil {
			// exact country missing from the list: leave the control as-is
			log.Printf("[form] phone country %q: %v", country, err)
		}
	}

	r.FillLogged(Phone, phone)
}
