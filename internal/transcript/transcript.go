// Package transcript provides access to video caption data: a metadata
// probe, a caption track listing/fetch service, and a raw subtitle download.
// Implementations must distinguish rate limiting from absence so callers can
// decide whether retrying a sibling data source is worthwhile.
package transcript

import (
	"context"
	"errors"
)

// ErrRateLimited signals that the upstream refused the request because the
// caller must back off (an HTTP 429 equivalent). Distinct from ErrNotFound.
var ErrRateLimited = errors.New("transcript: rate limited")

// ErrNotFound signals that the requested caption data does not exist.
var ErrNotFound = errors.New("transcript: not found")

// Track describes one available caption track for a video.
type Track struct {
	Language string // BCP-47 language code, e.g. "en" or "de"
	Name     string // human-readable track name
	Kind     string // "" for manual captions, "asr" for automatic ones
	BaseURL  string // endpoint the track's cues can be fetched from
}

// Metadata is the result of the best-effort metadata probe.
type Metadata struct {
	Title            string
	DurationSeconds  int
	Language         string   // detected original spoken language, may be ""
	CaptionLangs     []string // languages with manual captions
	AutoCaptionLangs []string // languages with automatic captions
}

// Service is the caption data capability consumed by the video extractor.
type Service interface {
	// ProbeMetadata fetches video metadata. Best effort: callers treat any
	// error as "metadata unavailable" and fall back to defaults.
	ProbeMetadata(ctx context.Context, videoID string) (*Metadata, error)

	// ListTracks returns the caption tracks the transcript service knows
	// about. Returns ErrRateLimited when the upstream is limiting requests.
	ListTracks(ctx context.Context, videoID string) ([]Track, error)

	// FetchTrack retrieves and flattens the cue text of a single track.
	FetchTrack(ctx context.Context, videoID string, track Track) (string, error)

	// DownloadSubtitle fetches the raw subtitle file for a language,
	// preferring manual captions over automatic ones. The body is returned
	// unparsed. Returns ErrNotFound if the language has no track.
	DownloadSubtitle(ctx context.Context, videoID, lang string) (string, error)
}
