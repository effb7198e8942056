package index

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"document-chat/internal/embedding"
	"document-chat/internal/models"
)

// ChromemIndex persists entries in a chromem-go database. Similarity is
// cosine. Reopening the same path restores a previously built index.
type ChromemIndex struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedder   embedding.Embedder
	name       string
	built      bool
}

const compress = false

// NewChromemIndex opens (or creates) the database at dbPath. With inMemory
// set, nothing touches the disk; that mode exists for tests.
func NewChromemIndex(embedder embedding.Embedder, dbPath, collectionName string, inMemory bool) (*ChromemIndex, error) {
	var db *chromem.DB
	var err error
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dbPath, compress)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %v", err)
		}
	}

	c, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %v", err)
	}

	idx := &ChromemIndex{
		db:         db,
		collection: c,
		embedder:   embedder,
		name:       collectionName,
	}
	if c.Count() > 0 {
		// persisted state from an earlier build
		idx.built = true
		log.Debug().Int("entries", c.Count()).Str("collection", collectionName).Msg("Reloaded persisted index")
	}
	return idx, nil
}

func (idx *ChromemIndex) Built() bool { return idx.built }

// Build embeds all chunks first and only then swaps the stored collection,
// so a failed embedding call never leaves a partial index behind.
func (idx *ChromemIndex) Build(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks to index")
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, chunk := range chunks {
		vec, err := idx.embedder.EmbedQuery(ctx, chunk.Text)
		if err != nil {
			return fmt.Errorf("%w: chunk %d: %v", ErrEmbedding, chunk.Seq, err)
		}
		docs = append(docs, chromem.Document{
			ID:        chunkID(chunk.Seq),
			Content:   chunk.Text,
			Metadata:  chunkMetadata(chunk),
			Embedding: vec,
		})
	}

	if err := idx.db.DeleteCollection(idx.name); err != nil {
		return fmt.Errorf("failed to reset collection: %v", err)
	}
	c, err := idx.db.GetOrCreateCollection(idx.name, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to create collection: %v", err)
	}
	if err := c.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %v", err)
	}

	idx.collection = c
	idx.built = true
	log.Info().Int("entries", len(docs)).Msg("Vector index built")
	return nil
}

func (idx *ChromemIndex) Query(ctx context.Context, text string, k int) ([]models.Chunk, error) {
	if !idx.built {
		return nil, ErrNotBuilt
	}
	if k < 1 {
		return nil, fmt.Errorf("k must be >= 1, got %d", k)
	}
	n := idx.collection.Count()
	if k > n {
		k = n
	}

	vec, err := idx.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", ErrEmbedding, err)
	}

	// chromem picks its top results before ties can be broken, so rank the
	// whole collection and cut to k afterwards; equal similarities keep
	// insertion order.
	results, err := idx.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: vec,
		NResults:       n,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %v", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return seqOf(results[i].Metadata) < seqOf(results[j].Metadata)
	})
	results = results[:k]

	chunks := make([]models.Chunk, len(results))
	for i, r := range results {
		chunks[i] = models.Chunk{
			Text: r.Content,
			Page: atoi(r.Metadata["page"]),
			Seq:  seqOf(r.Metadata),
		}
	}
	return chunks, nil
}

func chunkID(seq int) string {
	return fmt.Sprintf("chunk-%06d", seq)
}

func chunkMetadata(chunk models.Chunk) map[string]string {
	return map[string]string{
		"page": strconv.Itoa(chunk.Page),
		"seq":  strconv.Itoa(chunk.Seq),
	}
}

func seqOf(metadata map[string]string) int {
	return atoi(metadata["seq"])
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
