// Package highlight marks search-term occurrences in text for display.
// Matching is a literal, case-insensitive span scan rather than a regex
// substitution, so metacharacters in the term never act as patterns and
// the non-match spans stay plain text until the renderer escapes them.
package highlight

import (
	"html/template"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Span is one run of text; Match marks it as a term occurrence.
type Span struct {
	Text  string
	Match bool
}

// Split cuts content into spans around case-insensitive literal
// occurrences of term. An empty term yields one non-match span.
func Split(content, term string) []Span {
	if content == "" {
		return nil
	}
	if term == "" {
		return []Span{{Text: content}}
	}

	var spans []Span
	pos := 0
	i := 0
	for i < len(content) {
		n := matchLen(content[i:], term)
		if n == 0 {
			_, w := utf8.DecodeRuneInString(content[i:])
			i += w
			continue
		}
		if i > pos {
			spans = append(spans, Span{Text: content[pos:i]})
		}
		spans = append(spans, Span{Text: content[i : i+n], Match: true})
		i += n
		pos = i
	}
	if pos < len(content) {
		spans = append(spans, Span{Text: content[pos:]})
	}
	return spans
}

// matchLen reports the byte length of the prefix of s that matches term
// under simple case folding, or 0 when s does not start with term. Folding
// is rune by rune, so matched spans keep the byte boundaries of s even
// when case conversion would change a rune's encoded length.
func matchLen(s, term string) int {
	n := 0
	for _, tr := range term {
		sr, w := utf8.DecodeRuneInString(s[n:])
		if w == 0 || !foldEqual(sr, tr) {
			return 0
		}
		n += w
	}
	return n
}

func foldEqual(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

// HTML renders content with term occurrences wrapped in <mark>. Every
// span is HTML-escaped before the markers are added, so the result is
// safe to insert as-is.
func HTML(content, term string) template.HTML {
	spans := Split(content, term)
	if len(spans) == 0 {
		return ""
	}

	var b strings.Builder
	for _, span := range spans {
		escaped := template.HTMLEscapeString(span.Text)
		if span.Match {
			b.WriteString("<mark>")
			b.WriteString(escaped)
			b.WriteString("</mark>")
		} else {
			b.WriteString(escaped)
		}
	}
	return template.HTML(b.String())
}
