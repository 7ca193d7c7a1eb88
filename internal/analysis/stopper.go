// Package analysis derives per-answer voice features from a transcript:
// disfluency (stopper word) counts and the simulated audio signal.
package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CountStopperWords counts non-overlapping, case-insensitive, token-bounded
// occurrences of each stopper word in the transcript and sums them.
// Multi-word stoppers ("you know") match as a literal phrase with boundary
// checks at both ends, not per token.
func CountStopperWords(transcript string, stopperWords []string) int {
	lower := strings.ToLower(transcript)
	total := 0
	for _, stopper := range stopperWords {
		w := strings.ToLower(strings.TrimSpace(stopper))
		if w == "" {
			continue
		}
		for start := 0; ; {
			i := strings.Index(lower[start:], w)
			if i < 0 {
				break
			}
			begin := start + i
			end := begin + len(w)
			if boundaryBefore(lower, begin) && boundaryAfter(lower, end) {
				total++
				start = end
			} else {
				start = begin + 1
			}
		}
	}
	return total
}

// A token boundary separates a word rune (letter, digit or underscore) from
// anything else, the usual \b rule.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}
