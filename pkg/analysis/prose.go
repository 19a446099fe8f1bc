package analysis

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Markup that carries navigation or boilerplate rather than prose.
var boilerplateSelectors = []string{
	"script", "style", "noscript", "svg", "iframe",
	"nav", "header", "footer", "form", "aside",
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// ExtractProse reduces homepage HTML to clean text for keyword mining.
// Navigation and boilerplate subtrees are dropped. A page that fails to
// parse yields "", never an error: absent prose just means no keywords.
func ExtractProse(htmlStr string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return ""
	}

	doc.Find(strings.Join(boilerplateSelectors, ", ")).Remove()

	var parts []string
	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		parts = append(parts, s.Text())
	})

	text := strings.Join(parts, " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}
