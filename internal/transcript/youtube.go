package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const defaultPlayerEndpoint = "https://www.youtube.com/youtubei/v1/player"

// innertube client identity sent with player requests. The ANDROID client
// returns caption tracks without requiring signature deciphering.
const (
	innertubeClientName    = "ANDROID"
	innertubeClientVersion = "20.10.38"
)

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&?/]+)`),
	regexp.MustCompile(`youtube\.com/embed/([^&?/]+)`),
	regexp.MustCompile(`youtube\.com/v/([^&?/]+)`),
}

// VideoID extracts the video identifier from a watch/short/embed URL.
func VideoID(url string) (string, error) {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("could not extract video ID from URL: %s", url)
}

// YouTubeClient implements Service against YouTube's innertube player
// endpoint and the per-track caption endpoints it hands out.
type YouTubeClient struct {
	httpClient     *http.Client
	playerEndpoint string
}

// NewYouTubeClient creates a client with a 45 second per-call timeout.
func NewYouTubeClient() *YouTubeClient {
	return &YouTubeClient{
		httpClient:     &http.Client{Timeout: 45 * time.Second},
		playerEndpoint: defaultPlayerEndpoint,
	}
}

// playerResponse mirrors the fields of the innertube player payload we use.
type playerResponse struct {
	VideoDetails struct {
		Title         string `json:"title"`
		LengthSeconds string `json:"lengthSeconds"`
	} `json:"videoDetails"`
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []struct {
				BaseURL      string `json:"baseUrl"`
				LanguageCode string `json:"languageCode"`
				Kind         string `json:"kind"`
				Name         struct {
					SimpleText string `json:"simpleText"`
				} `json:"name"`
			} `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	Microformat struct {
		PlayerMicroformatRenderer struct {
			Language string `json:"language"`
		} `json:"playerMicroformatRenderer"`
	} `json:"microformat"`
}

func (c *YouTubeClient) player(ctx context.Context, videoID string) (*playerResponse, error) {
	payload := map[string]any{
		"videoId": videoID,
		"context": map[string]any{
			"client": map[string]any{
				"clientName":    innertubeClientName,
				"clientVersion": innertubeClientVersion,
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding player request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.playerEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building player request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("player request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("player request: unexpected status %d", resp.StatusCode)
	}

	var pr playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("decoding player response: %w", err)
	}
	return &pr, nil
}

func (c *YouTubeClient) ProbeMetadata(ctx context.Context, videoID string) (*Metadata, error) {
	pr, err := c.player(ctx, videoID)
	if err != nil {
		return nil, err
	}

	meta := &Metadata{
		Title:    pr.VideoDetails.Title,
		Language: pr.Microformat.PlayerMicroformatRenderer.Language,
	}
	if secs, err := strconv.Atoi(pr.VideoDetails.LengthSeconds); err == nil {
		meta.DurationSeconds = secs
	}
	for _, t := range pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks {
		if t.Kind == "asr" {
			meta.AutoCaptionLangs = append(meta.AutoCaptionLangs, t.LanguageCode)
		} else {
			meta.CaptionLangs = append(meta.CaptionLangs, t.LanguageCode)
		}
	}
	return meta, nil
}

func (c *YouTubeClient) ListTracks(ctx context.Context, videoID string) ([]Track, error) {
	pr, err := c.player(ctx, videoID)
	if err != nil {
		return nil, err
	}

	var tracks []Track
	for _, t := range pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks {
		tracks = append(tracks, Track{
			Language: t.LanguageCode,
			Name:     t.Name.SimpleText,
			Kind:     t.Kind,
			BaseURL:  t.BaseURL,
		})
	}
	return tracks, nil
}

func (c *YouTubeClient) FetchTrack(ctx context.Context, videoID string, track Track) (string, error) {
	if track.BaseURL == "" {
		return "", ErrNotFound
	}
	body, err := c.get(ctx, track.BaseURL)
	if err != nil {
		return "", err
	}
	text := ParseTimedText(body)
	if text == "" {
		return "", ErrNotFound
	}
	return text, nil
}

func (c *YouTubeClient) DownloadSubtitle(ctx context.Context, videoID, lang string) (string, error) {
	tracks, err := c.ListTracks(ctx, videoID)
	if err != nil {
		return "", err
	}

	// Prefer a manual track for the language, fall back to automatic.
	var chosen *Track
	for i := range tracks {
		if tracks[i].Language != lang {
			continue
		}
		if tracks[i].Kind != "asr" {
			chosen = &tracks[i]
			break
		}
		if chosen == nil {
			chosen = &tracks[i]
		}
	}
	if chosen == nil {
		return "", ErrNotFound
	}

	sep := "?"
	if strings.Contains(chosen.BaseURL, "?") {
		sep = "&"
	}
	return c.get(ctx, chosen.BaseURL+sep+"fmt=vtt")
}

func (c *YouTubeClient) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("caption request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("caption request: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading caption body: %w", err)
	}
	return string(body), nil
}

// timedText mirrors the XML cue format served by the track base URLs.
type timedText struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

// ParseTimedText flattens the cue text of a timedtext XML document, joining
// cues with single spaces. Malformed input yields "".
func ParseTimedText(content string) string {
	var tt timedText
	if err := xml.Unmarshal([]byte(content), &tt); err != nil {
		return ""
	}
	var parts []string
	for _, t := range tt.Texts {
		if s := strings.TrimSpace(t.Value); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
