package index

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"

	"document-chat/internal/db"
	"document-chat/internal/embedding"
	"document-chat/internal/models"
)

// PostgresIndex keeps entries in a pgvector-enabled documents table.
// Nearest-neighbor ordering uses L2 distance (pgvector `<->`).
type PostgresIndex struct {
	db       *bun.DB
	embedder embedding.Embedder
	built    bool
}

func NewPostgresIndex(bunDB *bun.DB, embedder embedding.Embedder) *PostgresIndex {
	idx := &PostgresIndex{db: bunDB, embedder: embedder}
	if n, err := db.CountDocuments(context.Background(), bunDB); err == nil && n > 0 {
		idx.built = true
		log.Debug().Int("entries", n).Msg("Reloaded persisted index from Postgres")
	}
	return idx
}

func (idx *PostgresIndex) Built() bool { return idx.built }

func (idx *PostgresIndex) Build(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks to index")
	}

	docs := make([]db.Document, 0, len(chunks))
	for _, chunk := range chunks {
		vec, err := idx.embedder.EmbedQuery(ctx, chunk.Text)
		if err != nil {
			return fmt.Errorf("%w: chunk %d: %v", ErrEmbedding, chunk.Seq, err)
		}
		docs = append(docs, db.Document{
			Content:    chunk.Text,
			Embedding:  vec,
			PageNumber: chunk.Page,
			Seq:        chunk.Seq,
		})
	}

	if err := db.DropDocuments(ctx, idx.db); err != nil {
		return fmt.Errorf("failed to clear documents: %v", err)
	}
	if err := db.InitDB(ctx, idx.db); err != nil {
		return fmt.Errorf("failed to initialize table: %v", err)
	}
	if err := db.StoreDocuments(ctx, idx.db, docs); err != nil {
		return fmt.Errorf("failed to store documents: %v", err)
	}

	idx.built = true
	log.Info().Int("entries", len(docs)).Msg("Vector index built")
	return nil
}

func (idx *PostgresIndex) Query(ctx context.Context, text string, k int) ([]models.Chunk, error) {
	if !idx.built {
		return nil, ErrNotBuilt
	}
	if k < 1 {
		return nil, fmt.Errorf("k must be >= 1, got %d", k)
	}
	if n, err := db.CountDocuments(ctx, idx.db); err == nil && k > n {
		k = n
	}

	vec, err := idx.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", ErrEmbedding, err)
	}

	docs, err := db.SearchDocuments(ctx, idx.db, vec, k)
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %v", err)
	}

	chunks := make([]models.Chunk, len(docs))
	for i, doc := range docs {
		chunks[i] = models.Chunk{Text: doc.Content, Page: doc.PageNumber, Seq: doc.Seq}
	}
	return chunks, nil
}
