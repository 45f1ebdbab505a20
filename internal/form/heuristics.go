package form

import "strings"

// Word lists behind the residual-sweep decisions. All matching is
// case-insensitive substring, same as the eligibility filter.

var affirmativeWords = []string{
	"yes", "i agree", "i am authorized", "authorized", "agree", "accept", "confirm",
}

var negativeWords = []string{
	"no", "not ", "don't", "do not", "decline", "disagree", "never",
}

var placeholderOptionWords = []string{
	"select", "choose", "pick one", "--", "please",
}

var declineToAnswerWords = []string{
	"prefer not", "decline to", "do not wish", "don't wish", "rather not", "no answer",
}

// selfIdentificationWords covers voluntary demographic questions. The sweep
// never guesses on these; see ChooseYesNo.
var selfIdentificationWords = []string{
	"disability", "veteran", "gender", "ethnicity", "race", "hispanic",
	"latino", "sexual orientation", "transgender", "lgbt",
}

// workAuthorizationWords: controls whose label hits this set are forced to
// their affirmative option regardless of the generic heuristics.
var workAuthorizationWords = []string{
	"authorized to work", "work authorization", "legally authorized",
	"eligible to work", "sponsorship", "require sponsorship", "visa",
	"right to work",
}

func containsAny(s string, words []string) bool {
	ls := strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(ls, w) {
			return true
		}
	}
	return false
}

// IsAffirmative reports whether an option's text lexically signals "yes".
// A leading bare "yes"/"y" counts; so do agreement phrases.
func IsAffirmative(option string) bool {
	lo := strings.ToLower(strings.TrimSpace(option))
	if lo == "y" || lo == "yes" || strings.HasPrefix(lo, "yes,") || strings.HasPrefix(lo, "yes ") {
		return true
	}
	return containsAny(lo, affirmativeWords[1:])
}

// IsNegative reports whether an option's text lexically signals "no".
func IsNegative(option string) bool {
	lo := strings.ToLower(strings.TrimSpace(option))
	if lo == "n" || lo == "no" || strings.HasPrefix(lo, "no,") || strings.HasPrefix(lo, "no ") {
		return true
	}
	return containsAny(lo, negativeWords[1:])
}

func isPlaceholderOption(option string) bool {
	return containsAny(option, placeholderOptionWords)
}

// IsDeclineToAnswer matches "prefer not to say" style options.
func IsDeclineToAnswer(option string) bool {
	return containsAny(option, declineToAnswerWords)
}

// IsSelfIdentification reports whether a question is a voluntary
// demographic disclosure.
func IsSelfIdentification(context string) bool {
	return containsAny(context, selfIdentificationWords)
}

// IsWorkAuthorization reports whether a question is about work
// authorization or sponsorship.
func IsWorkAuthorization(context string) bool {
	return containsAny(context, workAuthorizationWords)
}

// ChooseYesNo picks the option index for an unknown yes/no-shaped control,
// given the option texts and the question's surrounding text. Returns -1
// when nothing should be selected.
//
// Self-identification questions get the decline option when one exists and
// are otherwise left untouched — guessing an applicant's demographics is
// worse than an empty answer. Work-authorization questions are forced
// affirmative. Everything else prefers the affirmative option, then the
// first option that is neither negative nor a placeholder.
func ChooseYesNo(options []string, context string) int {
	if len(options) == 0 {
		return -1
	}

	if IsSelfIdentification(context) {
		for i, o := range options {
			if IsDeclineToAnswer(o) {
				return i
			}
		}
		return -1
	}

	affirmative := -1
	for i, o := range options {
		if IsAffirmative(o) {
			affirmative = i
			break
		}
	}

	if IsWorkAuthorization(context) {
		if affirmative >= 0 {
			return affirmative
		}
	}

	if affirmative >= 0 {
		return affirmative
	}
	for i, o := range options {
		if strings.TrimSpace(o) == "" || isPlaceholderOption(o) || IsNegative(o) {
			continue
		}
		return i
	}
	return -1
}
