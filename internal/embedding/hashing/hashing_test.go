package hashing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func norm(v []float32) float64 {
	s := 0.0
	for _, x := range v {
		s += float64(x) * float64(x)
	}
	return math.Sqrt(s)
}

func TestEmbed_FixedDimensionAndNormalised(t *testing.T) {
	e := NewEmbedder(64)

	vecs, err := e.Embed(context.Background(), []string{"Filter replacement schedule", "Warranty terms and conditions"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	for _, v := range vecs {
		assert.Len(t, v, 64)
		assert.InDelta(t, 1.0, norm(v), 1e-5)
	}
}

func TestEmbed_Deterministic(t *testing.T) {
	a, err := NewEmbedder(128).Embed(context.Background(), []string{"Replace the water filter every six months."})
	require.NoError(t, err)
	b, err := NewEmbedder(128).Embed(context.Background(), []string{"Replace the water filter every six months."})
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestEmbed_StopwordsOnlyIsZeroVector(t *testing.T) {
	vecs, err := NewEmbedder(16).Embed(context.Background(), []string{"the and of", ""})
	require.NoError(t, err)

	for _, v := range vecs {
		assert.Equal(t, make([]float32, 16), v)
	}
}

func TestEmbed_CaseAndStopwordInsensitive(t *testing.T) {
	vecs, err := NewEmbedder(256).Embed(context.Background(), []string{"The FILTER schedule", "filter schedule"})
	require.NoError(t, err)

	assert.Equal(t, vecs[0], vecs[1])
}

func TestEmbed_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEmbedder(8).Embed(ctx, []string{"x"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewEmbedder_DefaultDimension(t *testing.T) {
	e := NewEmbedder(0)

	assert.Equal(t, DefaultDimension, e.Dimension())
	assert.Equal(t, "hashing", e.Name())
}
