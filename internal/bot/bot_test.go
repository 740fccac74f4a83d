package bot

import (
	"context"
	"crypto/sha256"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ziadkadry99/linkbase/internal/db"
	"github.com/ziadkadry99/linkbase/internal/extract"
	"github.com/ziadkadry99/linkbase/internal/llm"
	"github.com/ziadkadry99/linkbase/internal/rag"
	"github.com/ziadkadry99/linkbase/internal/store"
)

type scriptedProvider struct {
	reply string
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{Content: p.reply}, nil
}

func embedFunc(_ context.Context, text string) ([]float32, error) {
	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, 8)
	var norm float64
	for i := range vec {
		vec[i] = float32(sum[i]) + 1
		norm += float64(vec[i]) * float64(vec[i])
	}
	scale := float32(math.Sqrt(norm))
	for i := range vec {
		vec[i] /= scale
	}
	return vec, nil
}

type fixture struct {
	router   *Router
	docs     *store.Documents
	messages *store.Messages
}

func newFixture(t *testing.T, reply string) fixture {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	docs := store.NewDocuments(database)
	messages := store.NewMessages(database)

	registry := rag.NewRegistry(rag.RegistryConfig{
		DataDir:   t.TempDir(),
		EmbedFunc: embedFunc,
		Provider:  &scriptedProvider{reply: reply},
		Documents: docs,
		Messages:  messages,
	})

	return fixture{
		router:   NewRouter(registry, docs, messages, extract.Deps{}),
		docs:     docs,
		messages: messages,
	}
}

func TestHandleCommands(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "unused")

	replies, err := f.router.Handle(ctx, Incoming{UserID: "u1", Text: "/start"})
	if err != nil {
		t.Fatalf("handle /start: %v", err)
	}
	if len(replies) != 1 || !strings.Contains(replies[0], "Welcome") {
		t.Fatalf("unexpected /start reply: %v", replies)
	}

	replies, err = f.router.Handle(ctx, Incoming{UserID: "u1", Text: "/help"})
	if err != nil {
		t.Fatalf("handle /help: %v", err)
	}
	if !strings.Contains(replies[0], "/delete <number>") {
		t.Fatalf("unexpected /help reply: %v", replies)
	}

	replies, err = f.router.Handle(ctx, Incoming{UserID: "u1", Text: "/bogus"})
	if err != nil {
		t.Fatalf("handle /bogus: %v", err)
	}
	if !strings.Contains(replies[0], "Unknown command") {
		t.Fatalf("unexpected unknown-command reply: %v", replies)
	}
}

func TestHandleLinkFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "a concise summary")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><head><title>Test Page</title></head><body><p>Interesting article body.</p></body></html>"))
	}))
	defer srv.Close()

	replies, err := f.router.Handle(ctx, Incoming{UserID: "u1", Text: "check this out " + srv.URL})
	if err != nil {
		t.Fatalf("handle link: %v", err)
	}
	if len(replies) != 2 {
		t.Fatalf("expected summary + document list, got %d replies: %v", len(replies), replies)
	}
	if !strings.Contains(replies[0], "Summary of Test Page") || !strings.Contains(replies[0], "a concise summary") {
		t.Fatalf("unexpected summary reply: %q", replies[0])
	}
	if !strings.Contains(replies[1], "Your document collection:") {
		t.Fatalf("unexpected list reply: %q", replies[1])
	}

	docs, err := f.docs.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list docs: %v", err)
	}
	if len(docs) != 1 || docs[0].Title != "Test Page" || docs[0].ContentType != "web" {
		t.Fatalf("unexpected stored document: %+v", docs)
	}

	msgs, err := f.messages.Recent(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("recent messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected user + bot messages, got %d", len(msgs))
	}
	if msgs[0].IsBot || !msgs[1].IsBot {
		t.Fatalf("unexpected message roles: %+v", msgs)
	}
	if msgs[1].Metadata["doc_id"] != docs[0].DocID {
		t.Fatalf("bot message not linked to document: %+v", msgs[1].Metadata)
	}
}

func TestHandleLinkFailureStillRecordsUserMessage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "unused")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	replies, err := f.router.Handle(ctx, Incoming{UserID: "u1", Text: srv.URL + "/missing"})
	if err != nil {
		t.Fatalf("handle link: %v", err)
	}
	if len(replies) != 1 || !strings.Contains(replies[0], "Sorry, I couldn't process this link") {
		t.Fatalf("unexpected failure reply: %v", replies)
	}

	docs, err := f.docs.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list docs: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("failed extraction must not index: %+v", docs)
	}

	msgs, err := f.messages.Recent(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("recent messages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].IsBot {
		t.Fatalf("expected only the user message recorded, got %+v", msgs)
	}
}

func TestHandleQuestionFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "here is your answer")

	replies, err := f.router.Handle(ctx, Incoming{UserID: "u1", Text: "what did I save?"})
	if err != nil {
		t.Fatalf("handle question: %v", err)
	}
	if len(replies) != 1 || replies[0] != "here is your answer" {
		t.Fatalf("unexpected answer replies: %v", replies)
	}

	msgs, err := f.messages.Recent(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("recent messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected question + answer recorded, got %d", len(msgs))
	}
}

func TestListDeleteClearStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "summary")

	replies, err := f.router.Handle(ctx, Incoming{UserID: "u1", Text: "/list"})
	if err != nil {
		t.Fatalf("empty /list: %v", err)
	}
	if !strings.Contains(replies[0], "don't have any documents yet") {
		t.Fatalf("unexpected empty list reply: %v", replies)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><head><title>Kept</title></head><body><p>body text</p></body></html>"))
	}))
	defer srv.Close()
	if _, err := f.router.Handle(ctx, Incoming{UserID: "u1", Text: srv.URL}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	replies, err = f.router.Handle(ctx, Incoming{UserID: "u1", Text: "/list"})
	if err != nil {
		t.Fatalf("/list: %v", err)
	}
	if !strings.Contains(replies[0], "1. [Kept]") {
		t.Fatalf("expected numbered entry, got %q", replies[0])
	}

	replies, err = f.router.Handle(ctx, Incoming{UserID: "u1", Text: "/delete"})
	if err != nil {
		t.Fatalf("/delete usage: %v", err)
	}
	if !strings.Contains(replies[0], "Usage: /delete") {
		t.Fatalf("expected usage reply, got %q", replies[0])
	}

	replies, err = f.router.Handle(ctx, Incoming{UserID: "u1", Text: "/delete 5"})
	if err != nil {
		t.Fatalf("/delete out of range: %v", err)
	}
	if !strings.Contains(replies[0], "Invalid document number") {
		t.Fatalf("expected range error, got %q", replies[0])
	}

	replies, err = f.router.Handle(ctx, Incoming{UserID: "u1", Text: "/stats"})
	if err != nil {
		t.Fatalf("/stats: %v", err)
	}
	if !strings.Contains(replies[0], "Documents: 1") {
		t.Fatalf("unexpected stats: %q", replies[0])
	}

	replies, err = f.router.Handle(ctx, Incoming{UserID: "u1", Text: "/delete 1"})
	if err != nil {
		t.Fatalf("/delete 1: %v", err)
	}
	if !strings.Contains(replies[0], "Deleted: Kept") {
		t.Fatalf("unexpected delete reply: %q", replies[0])
	}

	replies, err = f.router.Handle(ctx, Incoming{UserID: "u1", Text: "/clear"})
	if err != nil {
		t.Fatalf("/clear empty: %v", err)
	}
	if !strings.Contains(replies[0], "don't have any documents to clear") {
		t.Fatalf("unexpected clear reply: %q", replies[0])
	}
}
