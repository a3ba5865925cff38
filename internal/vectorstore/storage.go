package vectorstore

import "docqa/internal/domain"

// DefaultTopN is the number of neighbours returned when the caller passes none.
const DefaultTopN = 20

// Index stores chunk vectors at stable ordinals and answers nearest-neighbour queries.
type Index interface {
	Add(vectors [][]float32, chunks []domain.Chunk) error
	Search(vector []float32, topN int) ([]domain.SearchResult, error)
	Len() int
	Dimension() int
}

// Factory creates an empty index for the given dimensionality.
type Factory func(dimension int) (Index, error)
