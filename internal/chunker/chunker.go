// Package chunker splits loaded pages into overlapping fixed-size text
// windows for embedding and retrieval.
package chunker

import (
	"fmt"
	"strings"

	"document-chat/internal/models"
)

// Split cuts each page into windows of at most size bytes, stepping by
// size-overlap so that consecutive windows on the same page share exactly
// overlap bytes. Windows never span a page boundary; each chunk carries the
// page its first byte came from. Whitespace-only windows (page tails) are
// dropped. The output is deterministic for a given input.
func Split(pages []models.Page, size, overlap int) ([]models.Chunk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, size), got %d", overlap)
	}

	step := size - overlap
	var chunks []models.Chunk
	seq := 0
	for _, page := range pages {
		text := page.Text
		for start := 0; start < len(text); start += step {
			end := start + size
			if end > len(text) {
				end = len(text)
			}
			window := text[start:end]
			if strings.TrimSpace(window) != "" {
				chunks = append(chunks, models.Chunk{
					Text: window,
					Page: page.Number,
					Seq:  seq,
				})
				seq++
			}
			if end == len(text) {
				break
			}
		}
	}
	return chunks, nil
}
