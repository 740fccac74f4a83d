package extract

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ziadkadry99/linkbase/internal/subtitle"
	"github.com/ziadkadry99/linkbase/internal/transcript"
)

const transcriptHeading = "# Video Transcript"

// maxAttempts bounds each tier's retry loop: one initial try plus two
// retries on rate-limit signals.
const maxAttempts = 3

// defaultBackoff holds the delays before the second and third attempts.
var defaultBackoff = []time.Duration{3 * time.Second, 7 * time.Second}

var whitespaceRuns = regexp.MustCompile(`\s+`)

// Video extracts captions from video links through a tiered fallback chain:
//
//  1. a best-effort metadata probe (title, duration, original language),
//  2. the transcript service, with language priority and rate-limit backoff,
//  3. a raw subtitle download, retried per candidate language.
//
// The tiers run strictly in order because they share a rate-limited
// upstream; when tier 2 exhausts its retries on rate limiting, tier 3 is
// skipped entirely since it would hit the same gate.
type Video struct {
	svc     transcript.Service
	backoff []time.Duration
	meta    *transcript.Metadata // captured by the probe, nil if it failed
}

// NewVideo creates a video caption extractor backed by the given service.
func NewVideo(svc transcript.Service) *Video {
	return &Video{svc: svc, backoff: defaultBackoff}
}

func (v *Video) ExtractContent(ctx context.Context, url string) (string, error) {
	videoID, err := transcript.VideoID(url)
	if err != nil {
		return "", newError(KindMalformedURL, "%v", err)
	}

	// Tier 1: metadata probe. Failure is non-fatal; downstream tiers fall
	// back to English and an unknown title/duration.
	meta, err := v.svc.ProbeMetadata(ctx, videoID)
	if err == nil {
		v.meta = meta
	}

	originalLang := "en"
	if v.meta != nil && v.meta.Language != "" {
		originalLang = v.meta.Language
	}

	// Tier 2: transcript service with retry on rate limiting.
	text, rateLimited, err := v.fetchTranscript(ctx, videoID, originalLang)
	if err != nil {
		return "", err
	}

	// Tier 3: raw subtitle download. Skipped after a confirmed tier-2 rate
	// limit: both tiers hit the same upstream, so retrying is futile.
	if text == "" && !rateLimited {
		text, err = v.fetchSubtitles(ctx, videoID, originalLang)
		if err != nil {
			return "", err
		}
	}

	if text == "" {
		if rateLimited {
			return "", newError(KindRateLimited,
				"the caption service is rate-limiting requests; please try again in a few minutes")
		}
		return "", newError(KindNotFound, "no subtitles or captions available for this video")
	}

	text = strings.TrimSpace(whitespaceRuns.ReplaceAllString(text, " "))
	return transcriptHeading + "\n\n" + text, nil
}

// fetchTranscript queries the transcript service for the best caption
// track. The returned rateLimited flag is true only when all attempts were
// exhausted on rate-limit signals.
func (v *Video) fetchTranscript(ctx context.Context, videoID, originalLang string) (string, bool, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		text, err := v.transcriptAttempt(ctx, videoID, originalLang)
		if err == nil {
			return text, false, nil
		}
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		if !errors.Is(err, transcript.ErrRateLimited) {
			// Any other failure falls through to the next tier.
			return "", false, nil
		}
		if attempt < maxAttempts-1 {
			if err := v.sleep(ctx, attempt); err != nil {
				return "", false, err
			}
			continue
		}
	}
	return "", true, nil
}

// transcriptAttempt runs one list-and-fetch pass against the transcript
// service. An empty return with nil error means no track yielded text.
func (v *Video) transcriptAttempt(ctx context.Context, videoID, originalLang string) (string, error) {
	tracks, err := v.svc.ListTracks(ctx, videoID)
	if err != nil {
		return "", err
	}
	if len(tracks) == 0 {
		return "", nil
	}

	track, ok := pickTrack(tracks, priorityLanguages(originalLang))
	if !ok {
		return "", nil
	}

	text, err := v.svc.FetchTrack(ctx, videoID, track)
	if errors.Is(err, transcript.ErrRateLimited) {
		return "", err
	}
	if err != nil {
		return "", nil
	}
	return text, nil
}

// priorityLanguages builds the language preference list for tier 2.
func priorityLanguages(originalLang string) []string {
	langs := []string{"en"}
	if originalLang != "" && originalLang != "en" {
		langs = append(langs, originalLang, originalLang+"-orig")
	}
	return langs
}

// pickTrack returns the first track matching the priority list, falling
// back to the first available track of any language.
func pickTrack(tracks []transcript.Track, priority []string) (transcript.Track, bool) {
	for _, lang := range priority {
		for _, t := range tracks {
			if t.Language == lang {
				return t, true
			}
		}
	}
	if len(tracks) > 0 {
		return tracks[0], true
	}
	return transcript.Track{}, false
}

// fetchSubtitles is the raw download tier. Every candidate language gets
// its own 3-attempt retry budget; the first language yielding a non-empty
// parsed transcript wins.
func (v *Video) fetchSubtitles(ctx context.Context, videoID, originalLang string) (string, error) {
	for _, lang := range v.subtitleLanguages(originalLang) {
		text, err := v.downloadSubtitle(ctx, videoID, lang)
		if err != nil {
			return "", err
		}
		if text != "" {
			return text, nil
		}
	}
	return "", nil
}

// subtitleLanguages builds the deduplicated candidate list for tier 3:
// English and the original language first, then every language the
// metadata probe reported as having manual or automatic captions.
func (v *Video) subtitleLanguages(originalLang string) []string {
	langs := []string{"en"}
	if originalLang != "en" {
		langs = append(langs, originalLang)
	}
	if v.meta != nil {
		langs = append(langs, v.meta.CaptionLangs...)
		langs = append(langs, v.meta.AutoCaptionLangs...)
	}

	seen := make(map[string]bool, len(langs))
	var out []string
	for _, lang := range langs {
		if lang == "" || seen[lang] {
			continue
		}
		seen[lang] = true
		out = append(out, lang)
	}
	return out
}

// downloadSubtitle fetches and parses one language's subtitle file,
// retrying on rate limits with the tier backoff policy. A non-rate-limit
// failure abandons this language so the caller can try the next one.
func (v *Video) downloadSubtitle(ctx context.Context, videoID, lang string) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		raw, err := v.svc.DownloadSubtitle(ctx, videoID, lang)
		if err == nil {
			return subtitle.Parse(raw), nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, transcript.ErrRateLimited) && attempt < maxAttempts-1 {
			if err := v.sleep(ctx, attempt); err != nil {
				return "", err
			}
			continue
		}
		return "", nil
	}
	return "", nil
}

// sleep waits out the backoff delay for the given attempt without blocking
// past context cancellation.
func (v *Video) sleep(ctx context.Context, attempt int) error {
	if attempt >= len(v.backoff) {
		attempt = len(v.backoff) - 1
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(v.backoff[attempt]):
		return nil
	}
}

func (v *Video) DocumentName(ctx context.Context, url, content string) string {
	if v.meta != nil && v.meta.Title != "" {
		return shorten(v.meta.Title)
	}

	// The probe may not have run (DocumentName called standalone); try once.
	if videoID, err := transcript.VideoID(url); err == nil {
		if meta, err := v.svc.ProbeMetadata(ctx, videoID); err == nil && meta.Title != "" {
			v.meta = meta
			return shorten(meta.Title)
		}
		return "Video " + videoID
	}
	return "Video"
}

// Duration formats the probed video duration as minutes:seconds, or
// "Unknown" when no probe succeeded.
func (v *Video) Duration() string {
	if v.meta == nil || v.meta.DurationSeconds <= 0 {
		return "Unknown"
	}
	return fmt.Sprintf("%d:%02d", v.meta.DurationSeconds/60, v.meta.DurationSeconds%60)
}

func (v *Video) PromptTemplate() string { return "video" }
