// Package highlight implements the presentation-side text utilities for
// search results: wrapping matched terms in markup and extracting a bounded
// excerpt around the first match. All matching is case-insensitive substring
// matching over runes, so multi-byte text is handled correctly.
package highlight

import (
	"strings"
	"unicode"
)

const (
	markOpen  = "<mark>"
	markClose = "</mark>"

	// excerptLeadIn is how many runes of context precede the first match in
	// an excerpt window.
	excerptLeadIn = 50

	// truncationMarker is appended when an excerpt cuts text short.
	truncationMarker = "..."
)

// Highlight wraps every case-insensitive occurrence of term in text with
// <mark> markers, preserving the original casing of the matched substring and
// all surrounding text. Matches are found left to right and do not overlap.
// A blank term returns text unchanged.
func Highlight(text, term string) string {
	if text == "" || strings.TrimSpace(term) == "" {
		return text
	}

	src := []rune(text)
	pat := []rune(term)

	var b strings.Builder
	b.Grow(len(text))

	i := 0
	for i < len(src) {
		j := indexFold(src[i:], pat)
		if j < 0 {
			b.WriteString(string(src[i:]))
			break
		}
		b.WriteString(string(src[i : i+j]))
		b.WriteString(markOpen)
		b.WriteString(string(src[i+j : i+j+len(pat)]))
		b.WriteString(markClose)
		i += j + len(pat)
	}

	return b.String()
}

// Excerpt returns a window of at most length runes from text, positioned so
// the first case-insensitive occurrence of term has up to 50 runes of leading
// context, with matches inside the window highlighted. When term is blank or
// does not occur, the text is plainly truncated to length instead (with a
// trailing "..." when cut).
func Excerpt(text, term string, length int) string {
	if text == "" {
		return text
	}
	if strings.TrimSpace(term) == "" {
		return Truncate(text, length)
	}

	src := []rune(text)
	idx := indexFold(src, []rune(term))
	if idx < 0 {
		return Truncate(text, length)
	}

	start := idx - excerptLeadIn
	if start < 0 {
		start = 0
	}
	end := start + length
	if end > len(src) {
		end = len(src)
	}

	return Highlight(string(src[start:end]), term)
}

// Truncate shortens text to at most length runes, replacing the tail with
// "..." when anything is cut. The marker counts toward the limit.
func Truncate(text string, length int) string {
	src := []rune(text)
	if len(src) <= length {
		return text
	}
	if length <= len(truncationMarker) {
		return string(src[:length])
	}
	return string(src[:length-len(truncationMarker)]) + truncationMarker
}

// indexFold returns the rune index of the first case-insensitive occurrence
// of pat in s, or -1 if pat is empty or absent. Case folding is per rune, so
// indices always map back into s.
func indexFold(s, pat []rune) int {
	if len(pat) == 0 || len(pat) > len(s) {
		return -1
	}
	for i := 0; i+len(pat) <= len(s); i++ {
		match := true
		for j := range pat {
			if unicode.ToLower(s[i+j]) != unicode.ToLower(pat[j]) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
