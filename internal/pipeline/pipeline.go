// Package pipeline builds a question-answering index over one document
// collection and answers questions against it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"docqa/internal/chunker"
	"docqa/internal/domain"
	"docqa/internal/formatter"
	"docqa/internal/logger"
	"docqa/internal/metrics"
	"docqa/internal/retriever"
	"docqa/internal/summarizer"
	"docqa/internal/vectorstore"
	"docqa/internal/vectorstore/memory"
)

// DocumentLoader turns a folder into page documents.
type DocumentLoader interface {
	LoadFolder(dir string) ([]domain.Document, error)
}

// Deps are the collaborators shared by every pipeline a Builder creates.
// Loader, Chunker, Embedder and Generator are required.
type Deps struct {
	Loader     DocumentLoader
	Chunker    *chunker.WordChunker
	Embedder   domain.Embedder
	Generator  domain.Generator
	Summarizer domain.Summarizer
	Retriever  *retriever.Adaptive
	NewIndex   vectorstore.Factory
	Logger     *zap.Logger
}

type Options struct {
	// TopN is how many neighbours are fetched before the adaptive cut-off.
	TopN             int
	SummarySentences int
}

// Builder creates pipelines. It is safe for concurrent use as long as its
// collaborators are.
type Builder struct {
	deps Deps
	opts Options
}

func NewBuilder(deps Deps, opts Options) (*Builder, error) {
	switch {
	case deps.Loader == nil:
		return nil, errors.New("pipeline: loader is required")
	case deps.Chunker == nil:
		return nil, errors.New("pipeline: chunker is required")
	case deps.Embedder == nil:
		return nil, errors.New("pipeline: embedder is required")
	case deps.Generator == nil:
		return nil, errors.New("pipeline: generator is required")
	}
	if deps.Summarizer == nil {
		deps.Summarizer = summarizer.NewFrequencySummarizer()
	}
	if deps.Retriever == nil {
		deps.Retriever = retriever.New()
	}
	if deps.NewIndex == nil {
		deps.NewIndex = memory.Factory
	}
	deps.Logger = logger.OrNop(deps.Logger)
	if opts.TopN <= 0 {
		opts.TopN = vectorstore.DefaultTopN
	}
	if opts.SummarySentences <= 0 {
		opts.SummarySentences = summarizer.DefaultMaxSentences
	}
	return &Builder{deps: deps, opts: opts}, nil
}

// Pipeline answers questions over one immutable index.
type Pipeline struct {
	index     vectorstore.Index
	chunks    []domain.Chunk
	embedder  domain.Embedder
	generator domain.Generator
	retriever *retriever.Adaptive
	logger    *zap.Logger
	topN      int
	summary   string
	builtAt   time.Time
}

// Build is shorthand for NewBuilder followed by Builder.Build.
func Build(ctx context.Context, folder string, deps Deps, opts Options) (*Pipeline, error) {
	b, err := NewBuilder(deps, opts)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx, folder)
}

// Build loads every supported file in folder and indexes it. Any failure
// returns an *IndexingError and no pipeline.
func (b *Builder) Build(ctx context.Context, folder string) (*Pipeline, error) {
	docs, err := b.deps.Loader.LoadFolder(folder)
	if err != nil {
		return nil, b.failed(&IndexingError{Stage: StageLoad, Err: err}, time.Now())
	}
	return b.BuildDocuments(ctx, docs)
}

// BuildDocuments indexes already extracted documents.
func (b *Builder) BuildDocuments(ctx context.Context, docs []domain.Document) (*Pipeline, error) {
	start := time.Now()
	if len(docs) == 0 {
		return nil, b.failed(&IndexingError{Stage: StageLoad, Err: errors.New("no documents")}, start)
	}

	chunks := b.deps.Chunker.Chunk(docs)
	if len(chunks) == 0 {
		return nil, b.failed(&IndexingError{Stage: StageChunk, Err: errors.New("documents contain no words")}, start)
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Text
	}
	vectors, err := b.deps.Embedder.Embed(ctx, texts)
	if err != nil {
		return nil, b.failed(&IndexingError{Stage: StageEmbed, Err: err}, start)
	}
	if len(vectors) != len(chunks) {
		err := fmt.Errorf("embedder %s returned %d vectors for %d chunks", b.deps.Embedder.Name(), len(vectors), len(chunks))
		return nil, b.failed(&IndexingError{Stage: StageEmbed, Err: err}, start)
	}

	index, err := b.deps.NewIndex(len(vectors[0]))
	if err != nil {
		return nil, b.failed(&IndexingError{Stage: StageIndex, Err: err}, start)
	}
	if err := index.Add(vectors, chunks); err != nil {
		return nil, b.failed(&IndexingError{Stage: StageIndex, Err: err}, start)
	}

	p := &Pipeline{
		index:     index,
		chunks:    chunks,
		embedder:  b.deps.Embedder,
		generator: b.deps.Generator,
		retriever: b.deps.Retriever,
		logger:    b.deps.Logger,
		topN:      b.opts.TopN,
		summary:   b.summarize(docs),
		builtAt:   time.Now(),
	}

	elapsed := time.Since(start)
	metrics.IndexBuildsTotal.WithLabelValues("success").Inc()
	metrics.IndexBuildDuration.Observe(elapsed.Seconds())
	metrics.IndexedChunks.Observe(float64(len(chunks)))
	b.deps.Logger.Info("index built",
		zap.Int("documents", len(docs)),
		zap.Int("chunks", len(chunks)),
		zap.Int("dimension", index.Dimension()),
		zap.String("embedder", b.deps.Embedder.Name()),
		zap.Duration("elapsed", elapsed),
	)
	return p, nil
}

func (b *Builder) failed(err *IndexingError, start time.Time) error {
	metrics.IndexBuildsTotal.WithLabelValues("failed").Inc()
	b.deps.Logger.Warn("index build failed",
		zap.String("stage", string(err.Stage)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err.Err),
	)
	return err
}

func (b *Builder) summarize(docs []domain.Document) string {
	var all strings.Builder
	for _, d := range docs {
		all.WriteString(d.Text)
		all.WriteString("\n")
	}
	summary, err := b.deps.Summarizer.Summarize(all.String(), b.opts.SummarySentences)
	if err != nil {
		b.deps.Logger.Warn("summary failed", zap.Error(err))
		return ""
	}
	return summary
}

// Ask answers query from the indexed documents. Only a blank query or a
// failure to embed it return an error; generator failures are reported in
// the answer text.
func (p *Pipeline) Ask(ctx context.Context, query string) (domain.Answer, error) {
	start := time.Now()
	defer func() { metrics.QueryDuration.Observe(time.Since(start).Seconds()) }()

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Answer{}, &InputError{Reason: "query must not be empty"}
	}

	vectors, err := p.embedder.Embed(ctx, []string{query})
	if err == nil && len(vectors) != 1 {
		err = fmt.Errorf("got %d vectors for one query", len(vectors))
	}
	var ranked []domain.SearchResult
	if err == nil {
		ranked, err = p.index.Search(vectors[0], p.topN)
	}
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("embedding_failed").Inc()
		return domain.Answer{}, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}

	selected := p.retriever.Select(ranked)
	if len(selected) > p.retriever.Cutoff(ranked) {
		metrics.RetrieverFallbacksTotal.Inc()
	}
	metrics.ContextChunks.Observe(float64(len(selected)))
	p.logger.Debug("retrieved context",
		zap.Int("candidates", len(ranked)),
		zap.Int("selected", len(selected)),
	)
	if len(selected) == 0 {
		metrics.QueriesTotal.WithLabelValues("not_found").Inc()
		return domain.Answer{Answer: NotFoundMessage, Sources: []domain.Source{}}, nil
	}

	raw, err := p.generator.Generate(ctx, SystemPrompt, UserPrompt(query, selected))
	if err != nil {
		genErr := &GenerationError{Err: err}
		metrics.QueriesTotal.WithLabelValues("generation_failed").Inc()
		p.logger.Warn("generation failed", zap.Error(err))
		return domain.Answer{Answer: genErr.Error(), Sources: []domain.Source{}}, nil
	}

	metrics.QueriesTotal.WithLabelValues("answered").Inc()
	return domain.Answer{Answer: formatter.Format(raw), Sources: Sources(selected)}, nil
}

// Search returns the ranked candidates for query without generating an answer.
func (p *Pipeline) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &InputError{Reason: "query must not be empty"}
	}
	vectors, err := p.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: got %d vectors for one query", ErrEmbedding, len(vectors))
	}
	return p.index.Search(vectors[0], p.topN)
}

func (p *Pipeline) Summary() string { return p.summary }

func (p *Pipeline) ChunkCount() int { return p.index.Len() }

func (p *Pipeline) BuiltAt() time.Time { return p.builtAt }

// Documents lists the distinct document names, sorted.
func (p *Pipeline) Documents() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, c := range p.chunks {
		if _, ok := seen[c.Metadata.DocumentName]; ok {
			continue
		}
		seen[c.Metadata.DocumentName] = struct{}{}
		out = append(out, c.Metadata.DocumentName)
	}
	sort.Strings(out)
	return out
}
