// Package index stores embedded chunks and retrieves the nearest ones for a
// query. Two backends exist: a chromem-go directory on disk (default) and a
// Postgres table with pgvector ordering.
package index

import (
	"context"
	"errors"

	"document-chat/internal/models"
)

var (
	// ErrNotBuilt means Query was called before a successful Build and no
	// persisted state could be reloaded.
	ErrNotBuilt = errors.New("vector index not built")
	// ErrEmbedding wraps failures of the external embedding service.
	ErrEmbedding = errors.New("embedding service failed")
)

// Index is the retrieval contract shared by both backends.
//
// Build embeds every chunk and replaces the persisted state as a whole; any
// embedding failure aborts the build and leaves no partial index. Query embeds
// the text and returns the k nearest chunks, nearest first, with similarity
// ties broken by insertion order (earlier chunk wins). k larger than the index
// is clamped to its size.
type Index interface {
	Build(ctx context.Context, chunks []models.Chunk) error
	Query(ctx context.Context, text string, k int) ([]models.Chunk, error)
	Built() bool
}
