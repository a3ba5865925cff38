package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, 400, cfg.Chunker.ChunkSize)
	assert.Equal(t, 50, cfg.Chunker.Overlap)
	assert.Equal(t, 20, cfg.Retriever.TopN)
	require.NotNil(t, cfg.Retriever.MinSimilarity)
	require.NotNil(t, cfg.Retriever.DropThreshold)
	assert.Equal(t, 0.35, *cfg.Retriever.MinSimilarity)
	assert.Equal(t, 0.25, *cfg.Retriever.DropThreshold)
	assert.Equal(t, "hashing", cfg.Embedder.Type)
	require.NotNil(t, cfg.Embedder.Hashing)
	assert.Equal(t, 512, cfg.Embedder.Hashing.Dimension)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.Generator.Model)
	assert.Equal(t, "GROQ_API_KEY", cfg.Generator.APIKeyEnv)
	assert.Equal(t, float32(0.1), cfg.Generator.Temperature)
	assert.Equal(t, 1500, cfg.Generator.MaxTokens)
	assert.Equal(t, float32(0.9), cfg.Generator.TopP)
	assert.Equal(t, 3, cfg.Summarizer.MaxSentences)
}

func TestLoad_PartialFileGetsDefaults(t *testing.T) {
	path := writeConfig(t, `
chunker:
  chunk_size: 200
  overlap: 20
embedder:
  type: openai
  openai:
    model: text-embedding-3-large
generator:
  model: llama-3.1-8b-instant
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.Chunker.ChunkSize)
	assert.Equal(t, 20, cfg.Chunker.Overlap)
	require.NotNil(t, cfg.Embedder.OpenAI)
	assert.Equal(t, "text-embedding-3-large", cfg.Embedder.OpenAI.Model)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Embedder.OpenAI.BaseURL)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.OpenAI.APIKeyEnv)
	assert.Equal(t, 64, cfg.Embedder.OpenAI.BatchSize)
	assert.Nil(t, cfg.Embedder.Hashing)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.Generator.Model)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.Generator.BaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_ExplicitZeroThresholdsKept(t *testing.T) {
	path := writeConfig(t, "retriever:\n  min_similarity: 0\n  drop_threshold: 0\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Retriever.MinSimilarity)
	require.NotNil(t, cfg.Retriever.DropThreshold)
	assert.Zero(t, *cfg.Retriever.MinSimilarity)
	assert.Zero(t, *cfg.Retriever.DropThreshold)
	assert.Equal(t, 20, cfg.Retriever.TopN)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "chunker: [unclosed"},
		{"overlap too large", "chunker:\n  chunk_size: 10\n  overlap: 10\n"},
		{"negative overlap", "chunker:\n  chunk_size: 10\n  overlap: -1\n"},
		{"unknown embedder", "embedder:\n  type: word2vec\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")
	cfg := defaultConfig()
	cfg.Server.Addr = "127.0.0.1:9000"
	cfg.Retriever.TopN = 5

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg, loaded)
}

func TestLoadDefault_WritesUserConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())

	cfg, path, err := LoadDefault()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".config", "docqa", "config.yaml"), path)
	assert.Equal(t, defaultConfig(), cfg)
	assert.FileExists(t, path)
}

func TestLoadDefault_PrefersWorkingDirectory(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("config.yaml", []byte("server:\n  addr: \":7000\"\n"), 0o644))

	cfg, path, err := LoadDefault()
	require.NoError(t, err)

	assert.Equal(t, "config.yaml", path)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
