package chunking

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// splitSentences splits text on sentence-like boundaries: a '.', '!' or '?'
// followed by whitespace and an upper-case letter. The heuristic is
// approximate around abbreviations and decimals; callers treat boundaries
// as best-effort. Units that are empty after trimming are dropped.
func splitSentences(text string) []string {
	var sentences []string
	start := 0

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch != '.' && ch != '!' && ch != '?' {
			continue
		}

		// Consume the whitespace run after the terminator.
		j := i + 1
		for j < len(text) {
			r, size := utf8.DecodeRuneInString(text[j:])
			if !unicode.IsSpace(r) {
				break
			}
			j += size
		}
		if j == i+1 {
			continue // no whitespace after the terminator
		}

		next, _ := utf8.DecodeRuneInString(text[j:])
		if !unicode.IsUpper(next) {
			continue
		}

		if s := strings.TrimSpace(text[start : i+1]); s != "" {
			sentences = append(sentences, s)
		}
		start = j
		i = j - 1
	}

	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// sentencePositions locates each sentence's byte offset in the original
// text with a forward-only search. When whitespace normalization prevents
// an exact match, the previous cursor is used instead of failing.
func sentencePositions(text string, sentences []string) []int {
	positions := make([]int, len(sentences))
	searchStart := 0

	for i, sentence := range sentences {
		pos := strings.Index(text[searchStart:], sentence)
		if pos == -1 {
			positions[i] = searchStart
		} else {
			positions[i] = searchStart + pos
		}
		searchStart = positions[i] + len(sentence)
	}
	return positions
}
