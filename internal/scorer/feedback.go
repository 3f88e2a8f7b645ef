package scorer

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	startUpperPattern = regexp.MustCompile(`^\p{Lu}[^\p{Lu}]+$`)
	allUpperPattern   = regexp.MustCompile(`^[^\p{Ll}]+$`)
)

func getDefaultFeedback(t *Translations) Feedback {
	return Feedback{
		Warning: "",
		Suggestions: []string{
			t.T("suggestions.useWords"),
			t.T("suggestions.noNeed"),
		},
	}
}

// getFeedback explains the weakest part of the password, preferring a
// breach match over everything else and otherwise the longest match
func getFeedback(t *Translations, score int, sequence []Match) Feedback {
	if len(sequence) == 0 {
		return getDefaultFeedback(t)
	}
	for _, match := range sequence {
		if match.Pattern == PatternPwned {
			return Feedback{
				Warning:     t.T("warnings.pwned"),
				Suggestions: []string{t.T("suggestions.pwned")},
			}
		}
	}
	if score > 2 {
		return Feedback{Suggestions: []string{}}
	}

	longest := sequence[0]
	for _, match := range sequence[1:] {
		if match.length() > longest.length() {
			longest = match
		}
	}
	isSoleMatch := len(sequence) == 1
	feedback := getMatchFeedback(t, longest, isSoleMatch)
	suggestions := []string{t.T("suggestions.anotherWord")}
	for _, suggestion := range feedback.Suggestions {
		if suggestion != suggestions[0] {
			suggestions = append(suggestions, suggestion)
		}
	}
	feedback.Suggestions = suggestions
	return feedback
}

func getMatchFeedback(t *Translations, match Match, isSoleMatch bool) Feedback {
	pattern := strings.ToLower(match.Pattern)
	switch {
	case pattern == PatternDictionary:
		return getDictionaryFeedback(t, match, isSoleMatch)
	case pattern == PatternSpatial:
		warning := t.T("warnings.keyPattern")
		if isStraightRow(match.Token) {
			warning = t.T("warnings.straightRow")
		}
		return Feedback{
			Warning:     warning,
			Suggestions: []string{t.T("suggestions.longerKeyboardPattern")},
		}
	case strings.Contains(pattern, "repeat"):
		warning := t.T("warnings.extendedRepeat")
		if isSingleCharacter(match.Token) {
			warning = t.T("warnings.simpleRepeat")
		}
		return Feedback{
			Warning:     warning,
			Suggestions: []string{t.T("suggestions.repeated")},
		}
	case strings.Contains(pattern, "sequence"):
		return Feedback{
			Warning:     t.T("warnings.sequences"),
			Suggestions: []string{t.T("suggestions.sequences")},
		}
	case strings.Contains(pattern, "year"):
		return Feedback{
			Warning: t.T("warnings.recentYears"),
			Suggestions: []string{
				t.T("suggestions.recentYears"),
				t.T("suggestions.associatedYears"),
			},
		}
	case strings.Contains(pattern, "date"):
		return Feedback{
			Warning:     t.T("warnings.dates"),
			Suggestions: []string{t.T("suggestions.dates")},
		}
	}
	return Feedback{Suggestions: []string{}}
}

func getDictionaryFeedback(t *Translations, match Match, isSoleMatch bool) Feedback {
	name := strings.ToLower(match.DictionaryName)
	warning := ""
	switch {
	case name == DictionaryUserInputs || strings.Contains(name, "userinput"):
		warning = t.T("warnings.userInputs")
	case strings.Contains(name, "password"):
		switch {
		case !isSoleMatch:
			warning = t.T("warnings.similarToCommon")
		case match.Rank > 0 && match.Rank <= 10:
			warning = t.T("warnings.topTen")
		case match.Rank > 0 && match.Rank <= 100:
			warning = t.T("warnings.topHundred")
		default:
			warning = t.T("warnings.common")
		}
	case strings.Contains(name, "name"):
		warning = t.T("warnings.commonNames")
		if isSoleMatch {
			warning = t.T("warnings.namesByThemselves")
		}
	default:
		if isSoleMatch {
			warning = t.T("warnings.wordByItself")
		}
	}

	suggestions := []string{}
	if startUpperPattern.MatchString(match.Token) {
		suggestions = append(suggestions, t.T("suggestions.capitalization"))
	} else if hasLetter(match.Token) && allUpperPattern.MatchString(match.Token) {
		suggestions = append(suggestions, t.T("suggestions.allUppercase"))
	}
	return Feedback{
		Warning:     warning,
		Suggestions: suggestions,
	}
}

var keyboardRows = []string{
	"`1234567890-=",
	"qwertyuiop[]\\",
	"asdfghjkl;'",
	"zxcvbnm,./",
}

func isStraightRow(token string) bool {
	lowered := strings.ToLower(token)
	for _, row := range keyboardRows {
		if strings.Contains(row, lowered) {
			return true
		}
		if strings.Contains(reverse(row), lowered) {
			return true
		}
	}
	return false
}

func isSingleCharacter(token string) bool {
	runes := []rune(token)
	if len(runes) == 0 {
		return false
	}
	for _, r := range runes[1:] {
		if r != runes[0] {
			return false
		}
	}
	return true
}

func hasLetter(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func reverse(value string) string {
	runes := []rune(value)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
