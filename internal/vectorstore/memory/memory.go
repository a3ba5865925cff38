package memory

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"docqa/internal/domain"
	"docqa/internal/vectorstore"
)

var (
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	ErrNonFiniteVector   = errors.New("vector has non-finite component")
)

// Index is a flat in-memory index using brute-force squared L2 distance.
type Index struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float32
	chunks    []domain.Chunk
}

var _ vectorstore.Index = (*Index)(nil)

func NewIndex(dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension %d must be positive", ErrDimensionMismatch, dimension)
	}
	return &Index{dimension: dimension}, nil
}

// Factory adapts NewIndex to vectorstore.Factory.
func Factory(dimension int) (vectorstore.Index, error) {
	return NewIndex(dimension)
}

func (s *Index) Dimension() int { return s.dimension }

func (s *Index) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

// Add appends vector/chunk pairs at the next ordinals. Nothing is stored
// unless every pair is valid.
func (s *Index) Add(vectors [][]float32, chunks []domain.Chunk) error {
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: %d vectors for %d chunks", ErrDimensionMismatch, len(vectors), len(chunks))
	}
	for i, v := range vectors {
		if err := s.check(v); err != nil {
			return fmt.Errorf("vector %d: %w", i, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range vectors {
		s.vectors = append(s.vectors, append([]float32(nil), vectors[i]...))
		s.chunks = append(s.chunks, chunks[i])
	}
	return nil
}

// Search returns up to topN entries ordered by ascending distance, ties by ordinal.
// Scores are 1/(1+d), so 1 only for an exact match.
func (s *Index) Search(vector []float32, topN int) ([]domain.SearchResult, error) {
	if err := s.check(vector); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if topN <= 0 {
		topN = vectorstore.DefaultTopN
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	dists := make([]float64, len(s.vectors))
	for i := range s.vectors {
		dists[i] = squaredL2(s.vectors[i], vector)
	}
	idxs := make([]int, len(dists))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool { return dists[idxs[a]] < dists[idxs[b]] })
	if topN > len(idxs) {
		topN = len(idxs)
	}
	results := make([]domain.SearchResult, 0, topN)
	for _, j := range idxs[:topN] {
		results = append(results, domain.SearchResult{
			Score:    1 / (1 + dists[j]),
			Text:     s.chunks[j].Text,
			Metadata: s.chunks[j].Metadata,
		})
	}
	return results, nil
}

func (s *Index) check(v []float32) error {
	if len(v) != s.dimension {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(v), s.dimension)
	}
	for _, x := range v {
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return ErrNonFiniteVector
		}
	}
	return nil
}

func squaredL2(a, b []float32) float64 {
	sum := 0.0
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
