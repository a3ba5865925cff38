package retriever

import "docqa/internal/domain"

const (
	DefaultMinSimilarity = 0.35
	DefaultDropThreshold = 0.25

	// MinResults is the context size guaranteed whenever enough candidates exist.
	MinResults = 3
)

// Adaptive picks how many ranked results are worth using as answer context.
type Adaptive struct {
	minSimilarity float64
	dropThreshold float64
}

// Option overrides one of the cut-off thresholds.
type Option func(*Adaptive)

func WithMinSimilarity(v float64) Option { return func(a *Adaptive) { a.minSimilarity = v } }

func WithDropThreshold(v float64) Option { return func(a *Adaptive) { a.dropThreshold = v } }

func New(opts ...Option) *Adaptive {
	a := &Adaptive{minSimilarity: DefaultMinSimilarity, dropThreshold: DefaultDropThreshold}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Select expects results sorted by descending score. It keeps the leading run
// of results that stay above the floor without a sudden score cliff, falling
// back to the top MinResults when that run is too short.
func (a *Adaptive) Select(ranked []domain.SearchResult) []domain.SearchResult {
	n := a.Cutoff(ranked)
	if n < MinResults && len(ranked) >= MinResults {
		n = MinResults
	}
	out := make([]domain.SearchResult, n)
	copy(out, ranked[:n])
	return out
}

// Cutoff is the length of the adaptive selection before the fallback applies.
func (a *Adaptive) Cutoff(ranked []domain.SearchResult) int {
	for i, r := range ranked {
		if r.Score < a.minSimilarity {
			return i
		}
		if i > 0 && ranked[i-1].Score-r.Score > a.dropThreshold {
			return i
		}
	}
	return len(ranked)
}
