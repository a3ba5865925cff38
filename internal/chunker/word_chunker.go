package chunker

import (
	"errors"
	"fmt"
	"strings"

	"docqa/internal/domain"
)

const (
	DefaultChunkSize = 400
	DefaultOverlap   = 50
)

// ErrInvalidWindow is returned when the window would never advance.
var ErrInvalidWindow = errors.New("invalid chunk window")

// WordChunker splits page text into fixed-size word windows with overlap.
type WordChunker struct {
	chunkSize int
	overlap   int
}

func New(chunkSize, overlap int) (*WordChunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", ErrInvalidWindow, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", ErrInvalidWindow, overlap, chunkSize)
	}
	return &WordChunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// Step is the number of words the window start advances per chunk.
func (c *WordChunker) Step() int { return c.chunkSize - c.overlap }

// Chunk windows every document independently, keeping input order.
// Chunk ids restart at zero for each document.
func (c *WordChunker) Chunk(documents []domain.Document) []domain.Chunk {
	var chunks []domain.Chunk
	for _, doc := range documents {
		words := strings.Fields(doc.Text)
		id := 0
		for start := 0; start < len(words); start += c.Step() {
			end := start + c.chunkSize
			if end > len(words) {
				end = len(words)
			}
			chunks = append(chunks, domain.Chunk{
				Text: strings.Join(words[start:end], " "),
				Metadata: domain.ChunkMetadata{
					DocumentName: doc.Metadata.DocumentName,
					Source:       doc.Metadata.Source,
					Page:         doc.Metadata.Page,
					ChunkID:      id,
				},
			})
			id++
		}
	}
	return chunks
}
