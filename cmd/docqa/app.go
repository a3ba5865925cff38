package main

import (
	"fmt"

	"go.uber.org/zap"

	"docqa/internal/chunker"
	"docqa/internal/config"
	"docqa/internal/domain"
	"docqa/internal/embedding/hashing"
	embopenai "docqa/internal/embedding/openai"
	genopenai "docqa/internal/generation/openai"
	"docqa/internal/loader"
	"docqa/internal/pipeline"
	"docqa/internal/retriever"
	"docqa/internal/summarizer"
	"docqa/internal/vectorstore/memory"
)

// components are the long-lived collaborators shared by every pipeline.
type components struct {
	loader  *loader.Loader
	builder *pipeline.Builder
}

func newComponents(cfg *config.AppConfig, log *zap.Logger) (*components, error) {
	ch, err := chunker.New(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap)
	if err != nil {
		return nil, err
	}
	emb, err := newEmbedder(cfg.Embedder)
	if err != nil {
		return nil, err
	}
	gen, err := genopenai.NewGenerator(genopenai.Config{
		BaseURL:           cfg.Generator.BaseURL,
		APIKeyEnv:         cfg.Generator.APIKeyEnv,
		Model:             cfg.Generator.Model,
		Temperature:       cfg.Generator.Temperature,
		MaxTokens:         cfg.Generator.MaxTokens,
		TopP:              cfg.Generator.TopP,
		Timeout:           config.Seconds(cfg.Generator.TimeoutSecs),
		MaxRetries:        cfg.Generator.MaxRetries,
		RequestsPerSecond: cfg.Generator.RequestsPerSecond,
	})
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}

	ld := loader.New(loader.WithLogger(log))
	builder, err := pipeline.NewBuilder(pipeline.Deps{
		Loader:     ld,
		Chunker:    ch,
		Embedder:   emb,
		Generator:  gen,
		Summarizer: summarizer.NewFrequencySummarizer(),
		Retriever: retriever.New(
			retriever.WithMinSimilarity(*cfg.Retriever.MinSimilarity),
			retriever.WithDropThreshold(*cfg.Retriever.DropThreshold),
		),
		NewIndex: memory.Factory,
		Logger:   log,
	}, pipeline.Options{
		TopN:             cfg.Retriever.TopN,
		SummarySentences: cfg.Summarizer.MaxSentences,
	})
	if err != nil {
		return nil, err
	}
	log.Info("components ready",
		zap.String("embedder", emb.Name()),
		zap.String("model", cfg.Generator.Model),
		zap.Int("chunk_size", cfg.Chunker.ChunkSize),
		zap.Int("overlap", cfg.Chunker.Overlap),
	)
	return &components{loader: ld, builder: builder}, nil
}

func newEmbedder(cfg config.EmbedderConfig) (domain.Embedder, error) {
	switch cfg.Type {
	case "hashing", "":
		dim := hashing.DefaultDimension
		if cfg.Hashing != nil && cfg.Hashing.Dimension > 0 {
			dim = cfg.Hashing.Dimension
		}
		return hashing.NewEmbedder(dim), nil
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		emb, err := embopenai.NewEmbedder(embopenai.Config{
			BaseURL:           cfg.OpenAI.BaseURL,
			APIKeyEnv:         cfg.OpenAI.APIKeyEnv,
			Model:             cfg.OpenAI.Model,
			Timeout:           config.Seconds(cfg.OpenAI.TimeoutSecs),
			BatchSize:         cfg.OpenAI.BatchSize,
			MaxRetries:        cfg.OpenAI.MaxRetries,
			RequestsPerSecond: cfg.OpenAI.RequestsPerSecond,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder: %w", err)
		}
		return emb, nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}
