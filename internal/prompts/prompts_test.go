package prompts

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateContent(t *testing.T) {
	short := "hello"
	if got := TruncateContent(short); got != short {
		t.Fatalf("short content changed: %q", got)
	}

	long := strings.Repeat("a", maxContentLength+100)
	got := TruncateContent(long)
	if !strings.HasSuffix(got, "[Content truncated...]") {
		t.Fatalf("expected truncation marker, got tail %q", got[len(got)-30:])
	}
	if !strings.HasPrefix(got, strings.Repeat("a", maxContentLength)) {
		t.Fatal("truncated content does not keep the leading bytes")
	}
}

func TestTruncateContentKeepsRuneBoundary(t *testing.T) {
	// A leading single-byte rune shifts the 3-byte runes off the cut point,
	// so a naive byte cut would split one.
	long := "a" + strings.Repeat("€", maxContentLength)
	got := TruncateContent(long)
	if !utf8.ValidString(got) {
		t.Fatal("truncated content contains a split rune")
	}
	if !strings.HasSuffix(got, "[Content truncated...]") {
		t.Fatalf("expected truncation marker, got tail %q", got[len(got)-30:])
	}
}

func TestSummaryMessagesVideoIncludesDuration(t *testing.T) {
	msgs := SummaryMessages("video", "some transcript", "12:34")
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if !strings.Contains(msgs[1].Content, "12:34") {
		t.Fatal("video prompt missing duration")
	}
	if !strings.Contains(msgs[1].Content, "some transcript") {
		t.Fatal("video prompt missing content")
	}
}

func TestSummaryMessagesDefaultsToWeb(t *testing.T) {
	msgs := SummaryMessages("unknown", "body", "")
	if !strings.Contains(msgs[1].Content, "web article") {
		t.Fatalf("expected web template, got %q", msgs[1].Content[:60])
	}
}

func TestAnswerMessages(t *testing.T) {
	msgs := AnswerMessages("User: hi", "Document 1: Title", "what is it?")
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	for _, want := range []string{"User: hi", "Document 1: Title", "what is it?"} {
		if !strings.Contains(msgs[1].Content, want) {
			t.Fatalf("answer prompt missing %q", want)
		}
	}
}
