// Package highlight tokenizes source in the project's "dream" language.
//
// Rules run in a fixed order (keyword, string, comment, number, function).
// Strings and comments absorb earlier tokens they fully contain; any other
// overlap with a claimed span drops the later match, so no character is
// ever tagged twice.
package highlight

import (
	"html"
	"regexp"
	"sort"
	"strings"
)

// Kind is the token class; it is also the CSS class emitted by Annotate.
type Kind string

const (
	Keyword  Kind = "keyword"
	String   Kind = "string"
	Comment  Kind = "comment"
	Number   Kind = "number"
	Function Kind = "function"
)

// Language is the class suffix and marker of the custom language.
const Language = "dream"

// LanguageClass is the class carried by annotated blocks.
const LanguageClass = "language-" + Language

// Keywords is the fixed keyword list.
var Keywords = []string{"dream", "let", "const", "if", "else", "for", "while", "class", "return", "new", "this", "in"}

// Token is a half-open byte range [Start, End) of the source.
type Token struct {
	Start int  `json:"start"`
	End   int  `json:"end"`
	Kind  Kind `json:"kind"`
}

type rule struct {
	kind   Kind
	re     *regexp.Regexp
	group  int  // submatch that forms the span; 0 is the whole match
	absorb bool // replaces earlier tokens it fully contains
}

var rules = []rule{
	{Keyword, regexp.MustCompile(`\b(?:` + strings.Join(Keywords, "|") + `)\b`), 0, false},
	{String, regexp.MustCompile(`"[^"]*"`), 0, true},
	{Comment, regexp.MustCompile(`//[^\n]*`), 0, true},
	{Number, regexp.MustCompile(`\b\d+\.?\d*\b`), 0, false},
	{Function, regexp.MustCompile(`(\w+)\s*\(`), 1, false},
}

// Tokenize returns the tokens of src ordered by Start.
func Tokenize(src string) []Token {
	var claimed []Token
	for _, r := range rules {
		for _, m := range r.re.FindAllStringSubmatchIndex(src, -1) {
			start, end := m[2*r.group], m[2*r.group+1]
			if start < 0 || start == end {
				continue
			}
			if r.absorb {
				if straddles(claimed, start, end) {
					continue
				}
				claimed = dropContained(claimed, start, end)
			} else if overlaps(claimed, start, end) {
				continue
			}
			claimed = append(claimed, Token{Start: start, End: end, Kind: r.kind})
		}
	}
	sort.Slice(claimed, func(i, j int) bool { return claimed[i].Start < claimed[j].Start })
	return claimed
}

func overlaps(tokens []Token, start, end int) bool {
	for _, t := range tokens {
		if start < t.End && t.Start < end {
			return true
		}
	}
	return false
}

// straddles reports whether a claimed token overlaps [start, end) without
// lying inside it.
func straddles(tokens []Token, start, end int) bool {
	for _, t := range tokens {
		if start < t.End && t.Start < end && (t.Start < start || t.End > end) {
			return true
		}
	}
	return false
}

func dropContained(tokens []Token, start, end int) []Token {
	kept := tokens[:0]
	for _, t := range tokens {
		if t.Start >= start && t.End <= end {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

// Annotate returns src as escaped HTML with every token wrapped in
// <span class="token KIND">. The text content is unchanged.
func Annotate(src string) string {
	var b strings.Builder
	pos := 0
	for _, t := range Tokenize(src) {
		b.WriteString(html.EscapeString(src[pos:t.Start]))
		b.WriteString(`<span class="token `)
		b.WriteString(string(t.Kind))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(src[t.Start:t.End]))
		b.WriteString(`</span>`)
		pos = t.End
	}
	b.WriteString(html.EscapeString(src[pos:]))
	return b.String()
}

// IsCustomLanguage reports whether a code block belongs to the custom
// language, either by class or by the marker token in its text.
func IsCustomLanguage(class, text string) bool {
	return strings.Contains(class, LanguageClass) || strings.Contains(text, Language+" ")
}
