package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// first returns the trimmed text of the first element matching selector, or
// "" when there is none.
func first(s finder, selector string) string {
	return strings.TrimSpace(s.Find(selector).First().Text())
}

type finder interface {
	Find(string) *goquery.Selection
}

// ownTextBeforeChild is the text preceding the element's first child
// element.
func ownTextBeforeChild(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	var b strings.Builder
	for c := s.Get(0).FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode {
			break
		}
		b.WriteString(c.Data)
	}
	return b.String()
}

// ownTexts collects the trimmed leading own text of every match, leaving out
// nested elements such as the draw or an allowance.
func ownTexts(s *goquery.Selection) []string {
	out := make([]string, 0, s.Length())
	s.Each(func(_ int, e *goquery.Selection) {
		out = append(out, strings.TrimSpace(ownTextBeforeChild(e)))
	})
	return out
}

// texts collects the trimmed text of every match.
func texts(s *goquery.Selection) []string {
	out := make([]string, 0, s.Length())
	s.Each(func(_ int, e *goquery.Selection) {
		out = append(out, strings.TrimSpace(e.Text()))
	})
	return out
}

// pathPart returns segment i of the element's href split on "/".
func pathPart(s *goquery.Selection, i int) string {
	href, ok := s.Attr("href")
	if !ok {
		return ""
	}
	parts := strings.Split(href, "/")
	if i >= len(parts) {
		return ""
	}
	return parts[i]
}

// everyOther keeps elements 0, 2, 4... Jockey and trainer links are rendered
// twice per runner.
func everyOther(s *goquery.Selection) *goquery.Selection {
	return s.FilterFunction(func(i int, _ *goquery.Selection) bool {
		return i%2 == 0
	})
}

func hasExactClass(s *goquery.Selection, class string) bool {
	c, _ := s.Attr("class")
	return strings.TrimSpace(c) == class
}
