package extract

import "fmt"

// ErrorKind classifies extraction failures at the extractor boundary.
type ErrorKind string

const (
	KindNetworkFailure    ErrorKind = "network_failure"
	KindMalformedURL      ErrorKind = "malformed_url"
	KindNotFound          ErrorKind = "not_found"
	KindParseFailure      ErrorKind = "parse_failure"
	KindNoExtractableText ErrorKind = "no_extractable_text"
	KindRateLimited       ErrorKind = "rate_limited"
)

// Error is the failure half of an extraction result. Detail carries a
// human-readable reason suitable for showing to the end user.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
