package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/docview/internal/highlight"
)

// Heading is one table-of-contents entry.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// CodeBlock is the copyable text of one preformatted block.
type CodeBlock struct {
	Index    int    `json:"index"`
	Language string `json:"language,omitempty"`
	Text     string `json:"text"`
}

const contentID = "content"

// enhance runs the post-render passes over a sanitized fragment, in order:
// code annotation, copy controls, heading extraction.
func enhance(fragment string) (string, []Heading, []CodeBlock, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div id="` + contentID + `">` + fragment + `</div>`))
	if err != nil {
		return "", nil, nil, fmt.Errorf("parse html: %w", err)
	}
	root := doc.Find("#" + contentID)

	annotateCode(root)
	blocks := addCopyControls(root)
	headings := extractHeadings(root)

	out, err := root.Html()
	if err != nil {
		return "", nil, nil, fmt.Errorf("render html: %w", err)
	}
	return out, headings, blocks, nil
}

func annotateCode(root *goquery.Selection) {
	root.Find(`code[class*="` + highlight.LanguageClass + `"], pre code`).Each(func(_ int, code *goquery.Selection) {
		pre := code.Parent()
		class := code.AttrOr("class", "")
		if goquery.NodeName(pre) == "pre" {
			class += " " + pre.AttrOr("class", "")
		}
		text := code.Text()
		if !highlight.IsCustomLanguage(class, text) {
			return
		}
		code.SetAttr("class", highlight.LanguageClass)
		if goquery.NodeName(pre) == "pre" {
			pre.SetAttr("class", highlight.LanguageClass)
		}
		code.SetHtml(highlight.Annotate(text))
	})
}

func addCopyControls(root *goquery.Selection) []CodeBlock {
	var blocks []CodeBlock
	root.Find("pre").Each(func(i int, pre *goquery.Selection) {
		text := pre.Text()
		lang := ""
		if code := pre.Find("code").First(); code.Length() > 0 {
			text = code.Text()
			lang = languageOf(code.AttrOr("class", ""))
		}
		blocks = append(blocks, CodeBlock{Index: i, Language: lang, Text: text})
		pre.AppendNodes(copyButton(i))
	})
	return blocks
}

// CopyLabel and CopiedLabel are the two states of a copy control.
const (
	CopyLabel   = "Copy"
	CopiedLabel = "Copied!"
)

func copyButton(index int) *html.Node {
	btn := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Button,
		Data:     "button",
		Attr: []html.Attribute{
			{Key: "type", Val: "button"},
			{Key: "class", Val: "copy-btn"},
			{Key: "data-copy-index", Val: strconv.Itoa(index)},
		},
	}
	btn.AppendChild(&html.Node{Type: html.TextNode, Data: CopyLabel})
	return btn
}

func languageOf(class string) string {
	for _, c := range strings.Fields(class) {
		if lang, ok := strings.CutPrefix(c, "language-"); ok {
			return lang
		}
	}
	return ""
}

func extractHeadings(root *goquery.Selection) []Heading {
	var headings []Heading
	root.Find("h1, h2, h3, h4").Each(func(i int, h *goquery.Selection) {
		id := fmt.Sprintf("heading-%d", i)
		h.SetAttr("id", id)
		headings = append(headings, Heading{
			Level: headingLevel(h.Get(0)),
			Text:  strings.TrimSpace(h.Text()),
			ID:    id,
		})
	})
	return headings
}

func headingLevel(n *html.Node) int {
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}
