package domain

import "context"

// DocumentMetadata identifies where a page of text came from.
type DocumentMetadata struct {
	DocumentName string `json:"document"`
	Source       string `json:"source"`
	Page         int    `json:"page"`
}

// Document is the extracted text of a single page.
type Document struct {
	Text     string
	Metadata DocumentMetadata
}

// ChunkMetadata is DocumentMetadata plus the chunk ordinal within its page.
type ChunkMetadata struct {
	DocumentName string `json:"document"`
	Source       string `json:"source"`
	Page         int    `json:"page"`
	ChunkID      int    `json:"chunk_id"`
}

// Chunk is a window of a document's words used for indexing.
type Chunk struct {
	Text     string
	Metadata ChunkMetadata
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Score    float64
	Text     string
	Metadata ChunkMetadata
}

// Source is a citation shown next to an answer.
type Source struct {
	Document string `json:"document"`
	Page     int    `json:"page"`
	ChunkID  int    `json:"chunk_id"`
}

// SourceOf returns the citation identity of a chunk.
func SourceOf(m ChunkMetadata) Source {
	return Source{Document: m.DocumentName, Page: m.Page, ChunkID: m.ChunkID}
}

// Answer is what a caller receives for a question.
type Answer struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// Embedder converts texts into vectors of one fixed dimensionality.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces raw answer text from a system and user prompt.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
