package apply

import (
	"context"
	"log"
	"strings"

	"github.com/Affan1415/auto-apply/internal/domain"
	"github.com/Affan1415/auto-apply/internal/form"
)

// fillFields runs the deterministic population sequence. Every step is
// independently failable; nothing here aborts the attempt.
func (s *Stage) fillFields(ctx context.Context, resolver *form.Resolver, user domain.UserProfile) {
	ask := func(label string) string {
		return s.answers.Answer(ctx, label, user)
	}

	// 1. name, email, headline, address
	first := user.FirstName()
	if first == "" {
		first = ask("first_name")
	}
	last := user.LastName()
	if last == "" {
		last = ask("last_name")
	}
	resolver.FillLogged(form.FirstName, first)
	resolver.FillLogged(form.LastName, last)
	resolver.FillLogged(form.Email, ask("email"))
	resolver.FillLogged(form.Headline, ask("headline"))
	resolver.FillLogged(form.Address, ask("address"))

	// 2. phone: profile values first, fixed fallbacks otherwise
	resolver.FillPhone(user.Phone, user.Country)

	// 3. free-text sections
	resolver.FillLogged(form.Summary, ask("summary"))
	resolver.FillLogged(form.CoverLetter, ask("cover_letter"))
	resolver.FillLogged(form.DesiredSalary, ask("desired_salary"))
	resolver.FillLogged(form.Relocation, ask("relocation"))

	// 4. residual sweep over everything the targeted pass didn't cover
	n := resolver.SweepResidual(form.SweepOptions{})
	log.Printf("[apply] residual sweep touched %d controls", n)
}

func containsAnyPhrase(html string, phrases []string) bool {
	lh := strings.ToLower(html)
	for _, p := range phrases {
		if strings.Contains(lh, p) {
			return true
		}
	}
	return false
}
