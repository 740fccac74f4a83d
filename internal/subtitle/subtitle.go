// Package subtitle parses downloaded caption files into plain text. Two
// formats are supported: WebVTT cue files and the JSON event format served
// by the caption endpoints ("json3"). Malformed input yields an empty string
// rather than an error so callers can fall through to the next candidate.
package subtitle

import (
	"encoding/json"
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Parse detects the format of content and returns the flattened caption
// text, or "" if nothing usable could be extracted.
func Parse(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "{") {
		return ParseJSON3(trimmed)
	}
	return ParseVTT(trimmed)
}

// ParseVTT extracts caption text from a WebVTT file. Header, style, cue
// identifier, timestamp, and bare numeric index lines are stripped, as is
// inline markup; the remaining lines are joined with single spaces.
func ParseVTT(content string) string {
	var parts []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" ||
			strings.HasPrefix(line, "WEBVTT") ||
			strings.HasPrefix(line, "NOTE") ||
			strings.HasPrefix(line, "STYLE") ||
			strings.HasPrefix(line, "::cue") ||
			strings.Contains(line, "-->") ||
			isDigits(line) {
			continue
		}
		line = strings.TrimSpace(tagPattern.ReplaceAllString(line, ""))
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

// json3Doc mirrors the subset of the JSON caption format we care about:
// a list of events, each carrying nested text segments.
type json3Doc struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// ParseJSON3 flattens the text segments of every event, joining them with
// single spaces.
func ParseJSON3(content string) string {
	var doc json3Doc
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return ""
	}

	var parts []string
	for _, ev := range doc.Events {
		var segs []string
		for _, seg := range ev.Segs {
			if s := strings.TrimSpace(seg.UTF8); s != "" {
				segs = append(segs, s)
			}
		}
		if len(segs) > 0 {
			parts = append(parts, strings.Join(segs, " "))
		}
	}
	return strings.Join(parts, " ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
