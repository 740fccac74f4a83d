package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ziadkadry99/linkbase/internal/transcript"
)

const testVideoURL = "https://www.youtube.com/watch?v=abc123"

// fakeService scripts the transcript service's behavior per call.
type fakeService struct {
	meta     *transcript.Metadata
	metaErr  error
	tracks   []transcript.Track
	listErr  error
	trackTxt map[string]string // language -> text returned by FetchTrack
	fetchErr error
	subs     map[string]string // language -> raw body returned by DownloadSubtitle
	subErr   error

	listCalls     int
	downloadCalls []string // languages requested, in order
}

func (f *fakeService) ProbeMetadata(ctx context.Context, videoID string) (*transcript.Metadata, error) {
	return f.meta, f.metaErr
}

func (f *fakeService) ListTracks(ctx context.Context, videoID string) ([]transcript.Track, error) {
	f.listCalls++
	return f.tracks, f.listErr
}

func (f *fakeService) FetchTrack(ctx context.Context, videoID string, track transcript.Track) (string, error) {
	if f.fetchErr != nil {
		return "", f.fetchErr
	}
	return f.trackTxt[track.Language], nil
}

func (f *fakeService) DownloadSubtitle(ctx context.Context, videoID, lang string) (string, error) {
	f.downloadCalls = append(f.downloadCalls, lang)
	if f.subErr != nil {
		return "", f.subErr
	}
	if body, ok := f.subs[lang]; ok {
		return body, nil
	}
	return "", transcript.ErrNotFound
}

func newTestVideo(svc transcript.Service) *Video {
	v := NewVideo(svc)
	v.backoff = []time.Duration{0, 0}
	return v
}

func extractKind(t *testing.T, err error) ErrorKind {
	t.Helper()
	var ee *Error
	if !errors.As(err, &ee) {
		t.Fatalf("expected *extract.Error, got %T: %v", err, err)
	}
	return ee.Kind
}

func TestVideoTranscriptServiceSuccess(t *testing.T) {
	svc := &fakeService{
		meta: &transcript.Metadata{Title: "Talk", DurationSeconds: 125, Language: "en"},
		tracks: []transcript.Track{
			{Language: "de"},
			{Language: "en"},
		},
		trackTxt: map[string]string{"en": "hello   from\nthe talk", "de": "hallo"},
	}

	v := newTestVideo(svc)
	text, err := v.ExtractContent(context.Background(), testVideoURL)
	if err != nil {
		t.Fatalf("ExtractContent: %v", err)
	}
	want := "# Video Transcript\n\nhello from the talk"
	if text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
	if len(svc.downloadCalls) != 0 {
		t.Errorf("raw download tier invoked despite transcript service success: %v", svc.downloadCalls)
	}
}

func TestVideoLanguagePriorityPrefersEnglishThenOriginal(t *testing.T) {
	svc := &fakeService{
		meta: &transcript.Metadata{Language: "de"},
		tracks: []transcript.Track{
			{Language: "fr"},
			{Language: "de"},
		},
		trackTxt: map[string]string{"de": "deutscher text", "fr": "texte"},
	}

	v := newTestVideo(svc)
	text, err := v.ExtractContent(context.Background(), testVideoURL)
	if err != nil {
		t.Fatalf("ExtractContent: %v", err)
	}
	if !strings.Contains(text, "deutscher text") {
		t.Errorf("expected original-language track to win, got %q", text)
	}
}

func TestVideoFallsBackToFirstAvailableTrack(t *testing.T) {
	svc := &fakeService{
		tracks:   []transcript.Track{{Language: "ja"}},
		trackTxt: map[string]string{"ja": "日本語"},
	}

	v := newTestVideo(svc)
	text, err := v.ExtractContent(context.Background(), testVideoURL)
	if err != nil {
		t.Fatalf("ExtractContent: %v", err)
	}
	if !strings.Contains(text, "日本語") {
		t.Errorf("expected first available track as fallback, got %q", text)
	}
}

func TestVideoRateLimitExhaustionSkipsRawDownloadTier(t *testing.T) {
	svc := &fakeService{
		listErr: transcript.ErrRateLimited,
		subs:    map[string]string{"en": "WEBVTT\n\nshould not be reached"},
	}

	v := newTestVideo(svc)
	_, err := v.ExtractContent(context.Background(), testVideoURL)
	if err == nil {
		t.Fatal("expected error")
	}
	if kind := extractKind(t, err); kind != KindRateLimited {
		t.Errorf("kind = %q, want %q", kind, KindRateLimited)
	}
	if svc.listCalls != 3 {
		t.Errorf("transcript tier attempts = %d, want 3", svc.listCalls)
	}
	if len(svc.downloadCalls) != 0 {
		t.Errorf("raw download tier must be skipped after exhausted rate-limit retries, got calls: %v", svc.downloadCalls)
	}
}

func TestVideoEmptyTranscriptTierFallsThroughToRawDownload(t *testing.T) {
	svc := &fakeService{
		meta:   &transcript.Metadata{Language: "de"},
		tracks: nil, // transcript service knows no tracks, not rate limited
		subs: map[string]string{
			"de": "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nuntertitel text",
		},
	}

	v := newTestVideo(svc)
	text, err := v.ExtractContent(context.Background(), testVideoURL)
	if err != nil {
		t.Fatalf("ExtractContent: %v", err)
	}
	if !strings.Contains(text, "untertitel text") {
		t.Errorf("expected raw-download text for secondary language, got %q", text)
	}
	// English is probed first, then the original language succeeds.
	if len(svc.downloadCalls) < 2 || svc.downloadCalls[0] != "en" || svc.downloadCalls[1] != "de" {
		t.Errorf("download language order = %v, want [en de ...]", svc.downloadCalls)
	}
}

func TestVideoSubtitleLanguagesIncludeProbedCaptionLanguages(t *testing.T) {
	svc := &fakeService{
		meta: &transcript.Metadata{
			Language:         "en",
			CaptionLangs:     []string{"en", "ko"},
			AutoCaptionLangs: []string{"pt"},
		},
		subs: map[string]string{
			"pt": "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nlegenda",
		},
	}

	v := newTestVideo(svc)
	text, err := v.ExtractContent(context.Background(), testVideoURL)
	if err != nil {
		t.Fatalf("ExtractContent: %v", err)
	}
	if !strings.Contains(text, "legenda") {
		t.Errorf("expected probe-reported language to be tried, got %q", text)
	}
	want := []string{"en", "ko", "pt"}
	if len(svc.downloadCalls) != len(want) {
		t.Fatalf("download calls = %v, want %v", svc.downloadCalls, want)
	}
	for i, lang := range want {
		if svc.downloadCalls[i] != lang {
			t.Errorf("download calls = %v, want %v", svc.downloadCalls, want)
			break
		}
	}
}

func TestVideoNothingAvailableReportsNotFound(t *testing.T) {
	svc := &fakeService{}

	v := newTestVideo(svc)
	_, err := v.ExtractContent(context.Background(), testVideoURL)
	if err == nil {
		t.Fatal("expected error")
	}
	if kind := extractKind(t, err); kind != KindNotFound {
		t.Errorf("kind = %q, want %q", kind, KindNotFound)
	}
}

func TestVideoMalformedURL(t *testing.T) {
	v := newTestVideo(&fakeService{})
	_, err := v.ExtractContent(context.Background(), "https://example.com/not-a-video")
	if err == nil {
		t.Fatal("expected error")
	}
	if kind := extractKind(t, err); kind != KindMalformedURL {
		t.Errorf("kind = %q, want %q", kind, KindMalformedURL)
	}
}

func TestVideoMetadataProbeFailureIsNonFatal(t *testing.T) {
	svc := &fakeService{
		metaErr:  errors.New("probe unavailable"),
		tracks:   []transcript.Track{{Language: "en"}},
		trackTxt: map[string]string{"en": "still works"},
	}

	v := newTestVideo(svc)
	text, err := v.ExtractContent(context.Background(), testVideoURL)
	if err != nil {
		t.Fatalf("ExtractContent: %v", err)
	}
	if !strings.Contains(text, "still works") {
		t.Errorf("text = %q", text)
	}
	if got := v.Duration(); got != "Unknown" {
		t.Errorf("Duration() = %q, want Unknown", got)
	}
}

func TestVideoDuration(t *testing.T) {
	svc := &fakeService{
		meta:     &transcript.Metadata{Title: "Clip", DurationSeconds: 605},
		tracks:   []transcript.Track{{Language: "en"}},
		trackTxt: map[string]string{"en": "text"},
	}

	v := newTestVideo(svc)
	if _, err := v.ExtractContent(context.Background(), testVideoURL); err != nil {
		t.Fatalf("ExtractContent: %v", err)
	}
	if got := v.Duration(); got != "10:05" {
		t.Errorf("Duration() = %q, want 10:05", got)
	}
	if got := v.DocumentName(context.Background(), testVideoURL, ""); got != "Clip" {
		t.Errorf("DocumentName() = %q, want Clip", got)
	}
}

func TestVideoRateLimitRecoversWithinRetryBudget(t *testing.T) {
	svc := &rateLimitThenSucceed{
		failures: 2,
		inner: fakeService{
			tracks:   []transcript.Track{{Language: "en"}},
			trackTxt: map[string]string{"en": "recovered"},
		},
	}

	v := newTestVideo(svc)
	text, err := v.ExtractContent(context.Background(), testVideoURL)
	if err != nil {
		t.Fatalf("ExtractContent: %v", err)
	}
	if !strings.Contains(text, "recovered") {
		t.Errorf("text = %q", text)
	}
}

// rateLimitThenSucceed rate-limits ListTracks a fixed number of times before
// delegating to the inner fake.
type rateLimitThenSucceed struct {
	failures int
	inner    fakeService
}

func (r *rateLimitThenSucceed) ProbeMetadata(ctx context.Context, videoID string) (*transcript.Metadata, error) {
	return r.inner.ProbeMetadata(ctx, videoID)
}

func (r *rateLimitThenSucceed) ListTracks(ctx context.Context, videoID string) ([]transcript.Track, error) {
	if r.failures > 0 {
		r.failures--
		return nil, transcript.ErrRateLimited
	}
	return r.inner.ListTracks(ctx, videoID)
}

func (r *rateLimitThenSucceed) FetchTrack(ctx context.Context, videoID string, track transcript.Track) (string, error) {
	return r.inner.FetchTrack(ctx, videoID, track)
}

func (r *rateLimitThenSucceed) DownloadSubtitle(ctx context.Context, videoID, lang string) (string, error) {
	return r.inner.DownloadSubtitle(ctx, videoID, lang)
}
