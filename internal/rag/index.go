// Package rag maintains the per-user document index: content-addressable
// upsert into a vector collection plus the metadata store, similarity
// queries, and lifecycle operations.
package rag

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/linkbase/internal/store"
)

const collectionName = "documents"

// DefaultPreviewLength bounds the stored content preview.
const DefaultPreviewLength = 200

// DocID returns the stable document identity for a URL. The URL is
// normalized first so trivial resubmission variants map to the same id.
func DocID(url string) string {
	sum := sha256.Sum256([]byte(normalizeURL(url)))
	return hex.EncodeToString(sum[:])
}

// truncate cuts s to at most n bytes without splitting a UTF-8 rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func normalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if len(url) > 1 {
		url = strings.TrimSuffix(url, "/")
	}
	return url
}

// Result is one similarity-query hit.
type Result struct {
	DocID       string  `json:"doc_id"`
	Content     string  `json:"content"`
	Similarity  float32 `json:"similarity"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	ContentType string  `json:"content_type"`
}

// Index is one user's document index. It pairs a vector collection with the
// metadata store; the two sides tolerate partial state rather than requiring
// transactional atomicity.
type Index struct {
	userID        string
	db            *chromem.DB
	collection    *chromem.Collection
	embedFunc     chromem.EmbeddingFunc
	docs          *store.Documents
	previewLength int
}

// NewIndex creates an Index over an existing chromem DB and metadata store.
func NewIndex(userID string, db *chromem.DB, embedFunc chromem.EmbeddingFunc, docs *store.Documents, previewLength int) (*Index, error) {
	if previewLength <= 0 {
		previewLength = DefaultPreviewLength
	}

	col, err := db.GetOrCreateCollection(collectionName, nil, embedFunc)
	if err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}

	return &Index{
		userID:        userID,
		db:            db,
		collection:    col,
		embedFunc:     embedFunc,
		docs:          docs,
		previewLength: previewLength,
	}, nil
}

// Upsert indexes extracted content under the URL's stable doc_id. Re-ingesting
// the same URL overwrites both the metadata record and the vector entry
// instead of duplicating them.
func (ix *Index) Upsert(ctx context.Context, url, content, title, contentType string) (*store.Document, error) {
	docID := DocID(url)

	preview := truncate(content, ix.previewLength)

	doc := store.Document{
		DocID:          docID,
		URL:            url,
		Title:          title,
		ContentType:    contentType,
		AddedAt:        time.Now().UTC(),
		ContentPreview: preview,
	}
	if err := ix.docs.Save(ctx, ix.userID, doc); err != nil {
		return nil, err
	}

	// chromem appends blindly, so an existing entry must be removed first.
	if _, err := ix.collection.GetByID(ctx, docID); err == nil {
		if err := ix.collection.Delete(ctx, nil, nil, docID); err != nil {
			return nil, fmt.Errorf("replacing vector entry: %w", err)
		}
	}

	err := ix.collection.AddDocument(ctx, chromem.Document{
		ID:      docID,
		Content: content,
		Metadata: map[string]string{
			"url":          url,
			"title":        title,
			"content_type": contentType,
			"added_at":     doc.AddedAt.Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("adding vector entry: %w", err)
	}

	return &doc, nil
}

// Query returns up to k entries nearest to the question text. k is clamped
// to the index size; an empty index yields an empty result, never an error.
func (ix *Index) Query(ctx context.Context, question string, k int) ([]Result, error) {
	count := ix.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k <= 0 || k > count {
		k = count
	}

	hits, err := ix.collection.Query(ctx, question, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{
			DocID:       h.ID,
			Content:     h.Content,
			Similarity:  h.Similarity,
			Title:       h.Metadata["title"],
			URL:         h.Metadata["url"],
			ContentType: h.Metadata["content_type"],
		}
	}
	return results, nil
}

// Delete removes a document from both sides. Both sides are attempted even
// when one fails, and it reports true if either side removed the record,
// tolerating partial state from earlier failures. Only a double failure
// surfaces as an error.
func (ix *Index) Delete(ctx context.Context, docID string) (bool, error) {
	var vectorDeleted bool
	var vectorErr error
	if _, err := ix.collection.GetByID(ctx, docID); err == nil {
		if vectorErr = ix.collection.Delete(ctx, nil, nil, docID); vectorErr != nil {
			log.Printf("rag: deleting vector entry %s: %v", docID, vectorErr)
		} else {
			vectorDeleted = true
		}
	}

	storeDeleted, storeErr := ix.docs.Delete(ctx, ix.userID, docID)
	if storeErr != nil {
		log.Printf("rag: deleting document record %s: %v", docID, storeErr)
	}

	if vectorErr != nil && storeErr != nil {
		return false, fmt.Errorf("deleting document: %w", storeErr)
	}
	return vectorDeleted || storeDeleted, nil
}

// Clear removes every document for the user and returns the pre-clear count.
func (ix *Index) Clear(ctx context.Context) (int, error) {
	count, err := ix.docs.Clear(ctx, ix.userID)
	if err != nil {
		return 0, err
	}

	if err := ix.db.DeleteCollection(collectionName); err != nil {
		return count, fmt.Errorf("deleting collection: %w", err)
	}
	col, err := ix.db.GetOrCreateCollection(collectionName, nil, ix.embedFunc)
	if err != nil {
		return count, fmt.Errorf("recreating collection: %w", err)
	}
	ix.collection = col

	return count, nil
}

// List returns the user's documents in insertion order.
func (ix *Index) List(ctx context.Context) ([]store.Document, error) {
	return ix.docs.List(ctx, ix.userID)
}

// Count returns the number of vector entries in the index.
func (ix *Index) Count() int {
	return ix.collection.Count()
}
