// Package linkdetect finds URLs in free-form chat text and classifies them
// into the content types the extractors understand.
package linkdetect

import "regexp"

// ContentType identifies which extractor handles a URL.
type ContentType string

const (
	TypeWeb        ContentType = "web"
	TypeVideo      ContentType = "video"
	TypePDF        ContentType = "pdf"
	TypeRepository ContentType = "repository"
)

var (
	urlPattern   = regexp.MustCompile(`https?://[^\s]+`)
	videoPattern = regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/)[\w-]+`)
	repoPattern  = regexp.MustCompile(`https?://github\.com/[\w.-]+/[\w.-]+`)
	pdfPattern   = regexp.MustCompile(`(?i)\.pdf(?:\?|$|#)`)
)

// ExtractURL returns the first URL found in text, or "" if there is none.
func ExtractURL(text string) string {
	return urlPattern.FindString(text)
}

// IsURL reports whether text contains a URL.
func IsURL(text string) bool {
	return ExtractURL(text) != ""
}

// Classify determines the content type for a URL. Anything that is not a
// video, repository, or PDF link is treated as a generic web page.
func Classify(url string) ContentType {
	switch {
	case videoPattern.MatchString(url):
		return TypeVideo
	case repoPattern.MatchString(url):
		return TypeRepository
	case pdfPattern.MatchString(url):
		return TypePDF
	default:
		return TypeWeb
	}
}
