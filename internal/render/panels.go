package render

import (
	"fmt"
	"html"
	"strings"
)

// LoadingHTML is shown in the content area while a document is resolved.
const LoadingHTML = `<div class="loading">Loading...</div>`

// NoHeadingsMessage replaces the table of contents when a document has no headings.
const NoHeadingsMessage = "No headings found"

// TOCHTML renders the table-of-contents panel. Entries carry a scroll
// target instead of navigating the fragment.
func TOCHTML(headings []Heading) string {
	if len(headings) == 0 {
		return `<p class="toc-empty">` + NoHeadingsMessage + `</p>`
	}
	var b strings.Builder
	b.WriteString("<ul>")
	for _, h := range headings {
		fmt.Fprintf(&b, `<li><a href="#%s" class="toc-level-%d" data-scroll-target="%s">%s</a></li>`,
			h.ID, h.Level, h.ID, html.EscapeString(h.Text))
	}
	b.WriteString("</ul>")
	return b.String()
}

// ErrorPanelHTML renders the in-content error panel for a failed load,
// including a retry control for the same path.
func ErrorPanelHTML(err *LoadError) string {
	path := html.EscapeString(err.Path)
	return `<div class="error">` +
		`<h1>Error Loading Document</h1>` +
		`<p>Failed to load: ` + path + `</p>` +
		`<div class="error-details">` + html.EscapeString(err.Message) + `</div>` +
		`<button type="button" class="retry-btn" data-retry-path="` + path + `">Retry</button>` +
		`</div>`
}
