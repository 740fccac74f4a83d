package rag

import (
	"context"
	"testing"

	"github.com/ziadkadry99/linkbase/internal/db"
	"github.com/ziadkadry99/linkbase/internal/store"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return NewRegistry(RegistryConfig{
		DataDir:   t.TempDir(),
		EmbedFunc: testEmbedFunc,
		Provider:  &recordingProvider{reply: "ok"},
		Documents: store.NewDocuments(database),
		Messages:  store.NewMessages(database),
	})
}

func TestRegistryReturnsSameManager(t *testing.T) {
	reg := newTestRegistry(t)

	first, err := reg.Manager("alice")
	if err != nil {
		t.Fatalf("first access: %v", err)
	}
	second, err := reg.Manager("alice")
	if err != nil {
		t.Fatalf("second access: %v", err)
	}
	if first != second {
		t.Fatal("expected cached manager on second access")
	}
}

func TestRegistryIsolatesUsers(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)

	alice, err := reg.Manager("alice")
	if err != nil {
		t.Fatalf("alice: %v", err)
	}
	bob, err := reg.Manager("bob")
	if err != nil {
		t.Fatalf("bob: %v", err)
	}

	if _, err := alice.AddDocument(ctx, "https://example.com/a", "alice content", "A", "web"); err != nil {
		t.Fatalf("add for alice: %v", err)
	}

	bobDocs, err := bob.Index().List(ctx)
	if err != nil {
		t.Fatalf("bob list: %v", err)
	}
	if len(bobDocs) != 0 {
		t.Fatalf("bob sees alice's documents: %d", len(bobDocs))
	}
	if bob.Index().Count() != 0 {
		t.Fatalf("bob's vector index not empty: %d", bob.Index().Count())
	}

	if got := len(reg.Users()); got != 2 {
		t.Fatalf("expected 2 live managers, got %d", got)
	}
}
