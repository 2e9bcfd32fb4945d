// Package htmlutil removes HTML markup from scraped review text.
package htmlutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/happyhackingspace/duygu/internal/textutil"
)

// LoadHTMLString parses HTML string into a goquery Document.
func LoadHTMLString(htmlStr string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
}

// HasMarkup reports whether text may contain tags or character references.
func HasMarkup(text string) bool {
	return strings.ContainsAny(text, "<&")
}

// StripMarkup returns the visible text of an HTML fragment. Line breaks
// become spaces, script and style contents are dropped, entities are
// decoded, and whitespace runs are collapsed.
func StripMarkup(text string) (string, error) {
	if !HasMarkup(text) {
		return textutil.CollapseSpaces(text), nil
	}
	doc, err := LoadHTMLString(text)
	if err != nil {
		return "", err
	}
	doc.Find("script, style").Remove()
	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithNodes(space())
	})
	doc.Find("p, div, li").Each(func(_ int, s *goquery.Selection) {
		s.AppendNodes(space())
	})
	return textutil.CollapseSpaces(doc.Text()), nil
}

func space() *html.Node {
	return &html.Node{Type: html.TextNode, Data: " "}
}
