package rag

import (
	"fmt"
	"path/filepath"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/linkbase/internal/llm"
	"github.com/ziadkadry99/linkbase/internal/store"
)

// Registry caches one Manager per user. Entries are created on first access
// and kept for the process lifetime; there is no eviction.
type Registry struct {
	dataDir       string
	embedFunc     chromem.EmbeddingFunc
	provider      llm.Provider
	documents     *store.Documents
	messages      *store.Messages
	previewLength int
	opts          ManagerOptions

	mu       sync.Mutex
	managers map[string]*Manager
}

// RegistryConfig holds the shared dependencies every per-user Manager uses.
type RegistryConfig struct {
	DataDir       string
	EmbedFunc     chromem.EmbeddingFunc
	Provider      llm.Provider
	Documents     *store.Documents
	Messages      *store.Messages
	PreviewLength int
	Manager       ManagerOptions
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	return &Registry{
		dataDir:       cfg.DataDir,
		embedFunc:     cfg.EmbedFunc,
		provider:      cfg.Provider,
		documents:     cfg.Documents,
		messages:      cfg.Messages,
		previewLength: cfg.PreviewLength,
		opts:          cfg.Manager,
		managers:      make(map[string]*Manager),
	}
}

// Manager returns the user's manager, creating it (and the user's persistent
// vector database) on first access.
func (r *Registry) Manager(userID string) (*Manager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.managers[userID]; ok {
		return m, nil
	}

	db, err := chromem.NewPersistentDB(filepath.Join(r.dataDir, "users", userID), false)
	if err != nil {
		return nil, fmt.Errorf("opening vector database for user %s: %w", userID, err)
	}

	index, err := NewIndex(userID, db, r.embedFunc, r.documents, r.previewLength)
	if err != nil {
		return nil, err
	}

	m := NewManager(userID, index, r.messages, r.provider, r.opts)
	r.managers[userID] = m
	return m, nil
}

// Users returns the ids of users with a live manager.
func (r *Registry) Users() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.managers))
	for id := range r.managers {
		ids = append(ids, id)
	}
	return ids
}
