package extract

import (
	"context"
	"regexp"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

const webFetchTimeout = 30 * time.Second

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Web extracts readable text from HTML pages. Script, style, and page-chrome
// elements are dropped before converting the remaining markup to markdown.
type Web struct {
	converter *md.Converter
	title     string // captured during ExtractContent
}

// NewWeb creates a web page extractor.
func NewWeb() *Web {
	conv := md.NewConverter("", true, nil)
	return &Web{converter: conv}
}

func (w *Web) ExtractContent(ctx context.Context, url string) (string, error) {
	body, err := fetch(ctx, url, webFetchTimeout)
	if err != nil {
		return "", err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", newError(KindNoExtractableText, "page at %s has an empty body", url)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", newError(KindParseFailure, "parsing HTML from %s: %v", url, err)
	}

	w.title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("script, style, nav, footer, header").Remove()

	html, err := doc.Html()
	if err != nil {
		return "", newError(KindParseFailure, "rendering cleaned HTML from %s: %v", url, err)
	}

	text, err := w.converter.ConvertString(html)
	if err != nil {
		return "", newError(KindParseFailure, "converting %s to text: %v", url, err)
	}

	// Collapse runs of more than one blank line to exactly one.
	text = strings.TrimSpace(blankRuns.ReplaceAllString(text, "\n\n"))
	if text == "" {
		return "", newError(KindNoExtractableText, "page at %s yielded no text", url)
	}
	return text, nil
}

func (w *Web) DocumentName(ctx context.Context, url, content string) string {
	if w.title != "" {
		return shorten(w.title)
	}
	return hostOrDefault(url, "Web Page")
}

func (w *Web) PromptTemplate() string { return "web" }
