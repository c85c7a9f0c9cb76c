package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tokens := Tokenize("The cat sat on the mat!")
	assert.Equal(t, []string{"cat", "sat", "mat"}, tokens)
}

func TestTokenizeDropsShortTokensAndStopwords(t *testing.T) {
	assert.Empty(t, Tokenize("a I to be or"))
	assert.Equal(t, []string{"photosynthesis"}, Tokenize("a photosynthesis I"))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float64{1, 2}, []float64{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity([]float64{0, 0}, []float64{1, 1}))
}

func TestVectorizeNormalizesVectors(t *testing.T) {
	vectors := Vectorize([]string{"cat sat mat", "dog ran fast"})
	require.Len(t, vectors, 2)

	for _, vec := range vectors {
		var norm float64
		for _, v := range vec {
			norm += v * v
		}
		assert.InDelta(t, 1.0, norm, 1e-9)
	}
}

func TestVectorizeNoVocabulary(t *testing.T) {
	assert.Nil(t, Vectorize([]string{"a the", "or to"}))
}

func TestMeanPairwiseSimilarity(t *testing.T) {
	t.Run("identical answers score 1", func(t *testing.T) {
		sim := MeanPairwiseSimilarity([]string{"the water cycle", "the water cycle"})
		assert.InDelta(t, 1.0, sim, 1e-9)
	})

	t.Run("fewer than two answers score 0", func(t *testing.T) {
		assert.Equal(t, 0.0, MeanPairwiseSimilarity([]string{"one answer"}))
		assert.Equal(t, 0.0, MeanPairwiseSimilarity(nil))
	})

	t.Run("stopword-only answers score 0", func(t *testing.T) {
		assert.Equal(t, 0.0, MeanPairwiseSimilarity([]string{"the a", "to or"}))
	})

	t.Run("unrelated answers score between 0 and 1", func(t *testing.T) {
		sim := MeanPairwiseSimilarity([]string{"gravity pulls objects down", "mitochondria produce energy"})
		assert.Greater(t, sim, 0.0)
		assert.Less(t, sim, 1.0)
	})
}
