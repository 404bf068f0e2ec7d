// Package tokens provides heuristic token counting and budget-aware
// truncation. Every ceiling computation in the system goes through Count so
// that swapping in an exact tokenizer later changes only this package.
package tokens

import "unicode/utf8"

// CharsPerToken is the approximation used in place of a real tokenizer:
// one token per four characters of English text.
const CharsPerToken = 4

// Count estimates the number of tokens in text. The estimate is monotone in
// the length of the text and consistent across calls within one run.
func Count(text string) int {
	return len(text) / CharsPerToken
}

// Truncate returns a prefix of text whose estimated token count does not
// exceed maxTokens. Truncation is idempotent and returns "" for empty input
// or a non-positive budget.
func Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	maxChars := maxTokens * CharsPerToken
	if len(text) <= maxChars {
		return text
	}
	// Never split a multibyte rune at the cut point.
	cut := maxChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// Allocate splits total across parts by weight, giving earlier parts
// precedence when the total is insufficient for all. Each part receives at
// most its weight.
func Allocate(weights []int, total int) []int {
	alloc := make([]int, len(weights))
	remaining := total
	for i, w := range weights {
		if remaining <= 0 {
			break
		}
		if w < 0 {
			w = 0
		}
		if w > remaining {
			w = remaining
		}
		alloc[i] = w
		remaining -= w
	}
	return alloc
}
