package render

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Converter turns Markdown into (unsafe) HTML.
type Converter interface {
	Convert(src string) (string, error)
}

// Sanitizer turns untrusted HTML into HTML safe to insert into the page.
type Sanitizer interface {
	Sanitize(unsafe string) string
}

// MarkdownConverter handles Markdown using goldmark with GitHub extensions.
// Raw HTML passes through; the sanitizer is the only gate.
type MarkdownConverter struct {
	md goldmark.Markdown
}

func NewMarkdownConverter() *MarkdownConverter {
	return &MarkdownConverter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

func (c *MarkdownConverter) Convert(src string) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// PolicySanitizer wraps a bluemonday policy.
type PolicySanitizer struct {
	policy *bluemonday.Policy
}

var classValue = regexp.MustCompile(`^[\w\- ]+$`)

// NewSanitizer returns the user-generated-content policy, extended so code
// blocks keep their language classes.
func NewSanitizer() *PolicySanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(classValue).OnElements("pre", "code", "span")
	return &PolicySanitizer{policy: p}
}

func (s *PolicySanitizer) Sanitize(unsafe string) string {
	return s.policy.Sanitize(unsafe)
}
