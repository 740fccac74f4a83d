package store

import (
	"context"
	"testing"
	"time"

	"github.com/ziadkadry99/linkbase/internal/db"
)

func newTestDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening in-memory db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestDocumentsSaveListDelete(t *testing.T) {
	ctx := context.Background()
	docs := NewDocuments(newTestDB(t))

	first := Document{
		DocID:          "aaa",
		URL:            "https://example.com/a",
		Title:          "First",
		ContentType:    "web",
		AddedAt:        time.Now().UTC(),
		ContentPreview: "preview a",
	}
	second := Document{
		DocID:       "bbb",
		URL:         "https://example.com/b",
		Title:       "Second",
		ContentType: "pdf",
		AddedAt:     time.Now().UTC(),
	}

	if err := docs.Save(ctx, "u1", first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if err := docs.Save(ctx, "u1", second); err != nil {
		t.Fatalf("save second: %v", err)
	}

	list, err := docs.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(list))
	}
	if list[0].DocID != "aaa" || list[1].DocID != "bbb" {
		t.Fatalf("unexpected order: %s, %s", list[0].DocID, list[1].DocID)
	}

	deleted, err := docs.Delete(ctx, "u1", "aaa")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to report true")
	}
	deleted, err = docs.Delete(ctx, "u1", "aaa")
	if err != nil {
		t.Fatalf("delete again: %v", err)
	}
	if deleted {
		t.Fatal("expected second delete to report false")
	}

	n, err := docs.Count(ctx, "u1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 document left, got %d", n)
	}
}

func TestDocumentsUpsertKeepsOrder(t *testing.T) {
	ctx := context.Background()
	docs := NewDocuments(newTestDB(t))

	for _, id := range []string{"one", "two"} {
		if err := docs.Save(ctx, "u1", Document{DocID: id, URL: "https://example.com/" + id}); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	// Re-saving "one" must not move it to the end.
	if err := docs.Save(ctx, "u1", Document{DocID: "one", URL: "https://example.com/one", Title: "updated"}); err != nil {
		t.Fatalf("resave: %v", err)
	}

	list, err := docs.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(list))
	}
	if list[0].DocID != "one" || list[0].Title != "updated" {
		t.Fatalf("expected updated 'one' first, got %+v", list[0])
	}
}

func TestDocumentsClearAndIsolation(t *testing.T) {
	ctx := context.Background()
	docs := NewDocuments(newTestDB(t))

	for _, id := range []string{"a", "b", "c"} {
		if err := docs.Save(ctx, "u1", Document{DocID: id, URL: "https://example.com/" + id}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	if err := docs.Save(ctx, "u2", Document{DocID: "x", URL: "https://example.com/x"}); err != nil {
		t.Fatalf("save u2: %v", err)
	}

	n, err := docs.Clear(ctx, "u1")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 cleared, got %d", n)
	}

	other, err := docs.List(ctx, "u2")
	if err != nil {
		t.Fatalf("list u2: %v", err)
	}
	if len(other) != 1 {
		t.Fatalf("u2 documents affected by u1 clear: %d", len(other))
	}
}

func TestMessagesRecentTail(t *testing.T) {
	ctx := context.Background()
	msgs := NewMessages(newTestDB(t))

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		err := msgs.Save(ctx, "u1", Message{
			Content:   string(rune('a' + i)),
			Timestamp: base.Add(time.Duration(i) * time.Second),
			IsBot:     i%2 == 1,
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	tail, err := msgs.Recent(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(tail) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(tail))
	}
	if tail[0].Content != "d" || tail[1].Content != "e" {
		t.Fatalf("expected chronological tail [d e], got [%s %s]", tail[0].Content, tail[1].Content)
	}

	all, err := msgs.Recent(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("recent all: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected full transcript, got %d", len(all))
	}
}

func TestMessagesMetadataRoundTrip(t *testing.T) {
	ctx := context.Background()
	msgs := NewMessages(newTestDB(t))

	err := msgs.Save(ctx, "u1", Message{
		Content:   "summary",
		IsBot:     true,
		Timestamp: time.Now().UTC(),
		Metadata:  map[string]string{"doc_id": "abc", "url": "https://example.com"},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := msgs.Recent(ctx, "u1", 1)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
	if got[0].Metadata["doc_id"] != "abc" {
		t.Fatalf("metadata lost: %+v", got[0].Metadata)
	}
	if got[0].MessageID == "" {
		t.Fatal("expected generated message id")
	}
}
