// Package form resolves semantic form fields to on-page elements through
// ordered locator fallback chains, and fills them. Nothing here assumes a
// stable page schema; every lookup is a ranked list of guesses.
package form

import "github.com/tebeka/selenium"

// Locator is one concrete way to find an element.
type Locator struct {
	By    string // selenium.ByCSSSelector, ByName, ByXPATH, ...
	Value string
}

func css(v string) Locator   { return Locator{By: selenium.ByCSSSelector, Value: v} }
func name(v string) Locator  { return Locator{By: selenium.ByName, Value: v} }
func xpath(v string) Locator { return Locator{By: selenium.ByXPATH, Value: v} }

// Target is a semantic field plus its ranked locator strategies. The order
// matters: the first strategy with a visible, enabled match wins.
type Target struct {
	Name     string
	Locators []Locator
}

// Targets for the fields handled precisely, most specific locator first.
// Everything not covered here falls to the residual sweep.
var (
	FirstName = Target{Name: "first_name", Locators: []Locator{
		name("firstName"),
		name("first_name"),
		css(`input[id*="firstName" i]`),
		css(`input[autocomplete="given-name"]`),
		css(`input[placeholder*="first name" i]`),
	}}

	LastName = Target{Name: "last_name", Locators: []Locator{
		name("lastName"),
		name("last_name"),
		css(`input[id*="lastName" i]`),
		css(`input[autocomplete="family-name"]`),
		css(`input[placeholder*="last name" i]`),
	}}

	Email = Target{Name: "email", Locators: []Locator{
		name("email"),
		css(`input[type="email"]`),
		css(`input[id*="email" i]`),
		css(`input[autocomplete="email"]`),
	}}

	Headline = Target{Name: "headline", Locators: []Locator{
		name("headline"),
		css(`input[id*="headline" i]`),
		css(`input[placeholder*="headline" i]`),
		css(`input[placeholder*="title" i]`),
	}}

	Address = Target{Name: "address", Locators: []Locator{
		name("address"),
		name("location"),
		css(`input[id*="address" i]`),
		css(`input[autocomplete="street-address"]`),
		css(`input[placeholder*="address" i]`),
		css(`input[placeholder*="city" i]`),
	}}

	Phone = Target{Name: "phone", Locators: []Locator{
		name("phone"),
		name("phoneNumber"),
		css(`input[type="tel"]`),
		css(`input[id*="phone" i]`),
		css(`input[autocomplete="tel"]`),
	}}

	PhoneCountry = Target{Name: "phone_country", Locators: []Locator{
		css(`select[name*="country" i]`),
		css(`select[id*="country" i]`),
		css(`select[class*="country" i]`),
	}}

	Summary = Target{Name: "summary", Locators: []Locator{
		name("summary"),
		css(`textarea[id*="summary" i]`),
		css(`textarea[placeholder*="about" i]`),
		xpath(`//label[contains(translate(., 'SUMARY', 'sumary'), 'summary')]/following::textarea[1]`),
	}}

	CoverLetter = Target{Name: "cover_letter", Locators: []Locator{
		name("coverLetter"),
		name("cover_letter"),
		css(`textarea[id*="cover" i]`),
		css(`textarea[placeholder*="cover letter" i]`),
		xpath(`//label[contains(translate(., 'COVERLT', 'coverlt'), 'cover letter')]/following::textarea[1]`),
	}}

	DesiredSalary = Target{Name: "desired_salary", Locators: []Locator{
		name("salary"),
		name("desiredSalary"),
		css(`input[id*="salary" i]`),
		css(`input[placeholder*="salary" i]`),
		css(`input[placeholder*="compensation" i]`),
	}}

	Relocation = Target{Name: "relocation", Locators: []Locator{
		name("relocation"),
		css(`input[id*="relocat" i]`),
		css(`textarea[id*="relocat" i]`),
		css(`input[placeholder*="relocat" i]`),
		css(`input[placeholder*="commute" i]`),
	}}
)

// Controls rather than fields, but resolved the same way.
var (
	ApplyControl = Target{Name: "apply_control", Locators: []Locator{
		css(`a[data-cy="apply-button"]`),
		css(`button[id*="apply" i]`),
		css(`button[class*="apply" i]`),
		css(`a[class*="apply" i]`),
		xpath(`//button[contains(translate(., 'APLY', 'aply'), 'apply')]`),
		xpath(`//a[contains(translate(., 'APLY', 'aply'), 'apply')]`),
	}}

	SubmitControl = Target{Name: "submit_control", Locators: []Locator{
		css(`button[type="submit"]`),
		css(`input[type="submit"]`),
		css(`button[id*="submit" i]`),
		xpath(`//button[contains(translate(., 'SUBMIT', 'submit'), 'submit')]`),
	}}

	ResumeUpload = Target{Name: "resume_upload", Locators: []Locator{
		css(`input[type="file"][name*="resume" i]`),
		css(`input[type="file"][accept*="pdf"]`),
		css(`input[type="file"]`),
	}}

	DropZone = Target{Name: "drop_zone", Locators: []Locator{
		css(`[class*="dropzone" i]`),
		css(`[data-cy*="upload"]`),
		css(`button[class*="upload" i]`),
		css(`[class*="file-upload" i]`),
	}}
)

// knownFieldFragments marks inputs the targeted pass already owns so the
// residual sweep leaves them alone even when a fill failed.
var knownFieldFragments = []string{
	"first", "last", "name", "email", "phone", "address", "location",
	"headline", "summary", "cover", "salary", "relocat", "country",
	"linkedin", "website", "portfolio",
}
