// Package extract converts URLs into normalized text. Four extractor
// variants cover web pages, PDFs, repository READMEs, and video captions;
// callers pick a variant from the URL's classified content type.
package extract

import (
	"context"
	"net/url"
	"unicode/utf8"

	"github.com/ziadkadry99/linkbase/internal/linkdetect"
	"github.com/ziadkadry99/linkbase/internal/transcript"
)

// Extractor turns a URL into normalized text plus a short display name.
type Extractor interface {
	// ExtractContent fetches and normalizes the content behind url. On
	// failure the returned error is an *Error carrying the failure kind.
	ExtractContent(ctx context.Context, url string) (string, error)

	// DocumentName returns a short display name for the document. It never
	// fails: any internal error degrades to a generic name derived from
	// the URL.
	DocumentName(ctx context.Context, url, content string) string

	// PromptTemplate names the summarization template to apply downstream.
	PromptTemplate() string
}

// Deps carries the external collaborators extractors depend on.
type Deps struct {
	Transcript transcript.Service
}

// New returns a fresh extractor for the given content type. Extractors are
// cheap to construct and carry per-request state (captured titles, probed
// metadata), so callers should create one per extraction rather than share
// instances across requests.
func New(contentType linkdetect.ContentType, deps Deps) Extractor {
	switch contentType {
	case linkdetect.TypeVideo:
		return NewVideo(deps.Transcript)
	case linkdetect.TypePDF:
		return NewPDF()
	case linkdetect.TypeRepository:
		return NewRepository()
	default:
		return NewWeb()
	}
}

// hostOrDefault returns the URL's host name, or fallback when the URL does
// not parse.
func hostOrDefault(rawURL, fallback string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return fallback
	}
	return u.Host
}

// shorten truncates a display name to at most 60 bytes, cutting on a rune
// boundary so multi-byte titles stay valid.
func shorten(name string) string {
	if len(name) <= 60 {
		return name
	}
	cut := 57
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut] + "..."
}
