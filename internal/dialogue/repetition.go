package dialogue

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// repetitionThreshold is the keyword overlap above which two questions are
// considered the same question.
const repetitionThreshold = 0.5

var stopwords = map[string]struct{}{
	"para":   {},
	"esta":   {},
	"como":   {},
	"qual":   {},
	"onde":   {},
	"quando": {},
}

// keywords lowercases text, splits it into words and keeps the ones that
// carry meaning: no stopwords, nothing of three runes or fewer.
func keywords(text string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) <= 3 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// overlapRatio is |a∩b| / min(|a|,|b|). Callers guarantee both are non-empty.
func overlapRatio(a, b map[string]struct{}) float64 {
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	shared := 0
	for w := range small {
		if _, ok := large[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(small))
}

// IsRepetitive reports whether candidate asks substantially the same thing
// as any prior question. A question without usable keywords, on either side,
// can never be compared and so never counts as a repeat.
func IsRepetitive(candidate string, priors []string) bool {
	candidateWords := keywords(candidate)
	if len(candidateWords) == 0 {
		return false
	}

	for _, prior := range priors {
		priorWords := keywords(prior)
		if len(priorWords) == 0 {
			continue
		}
		if overlapRatio(candidateWords, priorWords) > repetitionThreshold {
			return true
		}
	}
	return false
}
