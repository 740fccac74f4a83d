package extract

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/ledongthuc/pdf"
)

const pdfFetchTimeout = 60 * time.Second

// PDF extracts text from PDF documents page by page. Each page with
// extractable text becomes a section headed by its page number; pages
// without text are silently omitted.
type PDF struct{}

// NewPDF creates a PDF extractor.
func NewPDF() *PDF {
	return &PDF{}
}

func (p *PDF) ExtractContent(ctx context.Context, rawURL string) (string, error) {
	body, err := fetch(ctx, rawURL, pdfFetchTimeout)
	if err != nil {
		return "", err
	}

	pages, err := extractPages(body)
	if err != nil {
		return "", newError(KindParseFailure, "parsing PDF from %s: %v", rawURL, err)
	}

	text := joinPageSections(pages)
	if text == "" {
		return "", newError(KindNoExtractableText, "no text could be extracted from the PDF at %s", rawURL)
	}
	return text, nil
}

// extractPages returns the text of every page, indexed from page 1. Pages
// that yield no text are returned as empty strings. The pdf library panics
// on some malformed files, so recover and report a parse error instead.
func extractPages(body []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("malformed document: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, err
	}

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, strings.TrimSpace(text))
	}
	return pages, nil
}

// joinPageSections formats non-empty pages as numbered sections.
func joinPageSections(pages []string) string {
	var sections []string
	for i, text := range pages {
		if text == "" {
			continue
		}
		sections = append(sections, fmt.Sprintf("## Page %d\n\n%s", i+1, text))
	}
	return strings.Join(sections, "\n\n")
}

func (p *PDF) DocumentName(ctx context.Context, rawURL, content string) string {
	if u, err := url.Parse(rawURL); err == nil {
		stem := strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path))
		if decoded, err := url.PathUnescape(stem); err == nil {
			stem = decoded
		}
		if stem != "" && stem != "." && stem != "/" && stem != "download" {
			name := strings.NewReplacer("_", " ", "-", " ").Replace(stem)
			return shorten(titleCase(name))
		}
	}

	// Fall back to the first non-heading line of the extracted content.
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			return shorten(line)
		}
	}
	return "PDF Document"
}

func (p *PDF) PromptTemplate() string { return "pdf" }

// titleCase upper-cases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
