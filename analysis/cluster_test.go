package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClusterAnswersFewerThanTwo(t *testing.T) {
	assert.Nil(t, ClusterAnswers(nil))
	assert.Nil(t, ClusterAnswers([]string{"only one"}))
}

func TestClusterAnswersIdentical(t *testing.T) {
	answers := []string{"the same answer", "the same answer", "the same answer"}
	clusters := ClusterAnswers(answers)

	require.Len(t, clusters, 1)
	assert.Equal(t, answers, clusters[0])
}

func TestClusterAnswersPreservesAllAnswers(t *testing.T) {
	answers := []string{
		"photosynthesis converts light into energy",
		"plants use sunlight to make food",
		"gravity pulls objects toward earth",
		"objects fall because of gravity",
		"mitochondria produce cellular energy",
	}
	clusters := ClusterAnswers(answers)
	require.NotEmpty(t, clusters)

	total := 0
	for _, cluster := range clusters {
		assert.NotEmpty(t, cluster)
		total += len(cluster)
	}
	assert.Equal(t, len(answers), total)
}

func TestClusterAnswersDeterministic(t *testing.T) {
	answers := []string{
		"water boils at one hundred degrees",
		"the boiling point of water is 100",
		"ice melts at zero degrees",
		"frozen water melts at zero",
	}
	assert.Equal(t, ClusterAnswers(answers), ClusterAnswers(answers))
}

func TestClusterAnswersDegenerateSplitUsesMaxClusters(t *testing.T) {
	// Distinct strings with identical token content vectorize to the
	// same point, so k-means collapses to one cluster and the answers
	// are split into up to MaxClusters even groups.
	answers := []string{
		"the cat sat",
		"a cat sat",
		"cat sat",
		"cat sat!",
		"the cat sat.",
		"cat, sat",
	}
	clusters := ClusterAnswers(answers)

	require.Len(t, clusters, MaxClusters)
	total := 0
	for _, cluster := range clusters {
		total += len(cluster)
	}
	assert.Equal(t, len(answers), total)
	assert.Equal(t, []string{"the cat sat.", "cat, sat"}, clusters[MaxClusters-1])
}

func TestSplitIntoGroups(t *testing.T) {
	t.Run("few answers become singleton groups", func(t *testing.T) {
		groups := SplitIntoGroups([]string{"a", "b"}, 3)
		assert.Equal(t, [][]string{{"a"}, {"b"}}, groups)
	})

	t.Run("many answers split evenly with remainder last", func(t *testing.T) {
		groups := SplitIntoGroups([]string{"a", "b", "c", "d", "e"}, 3)
		require.Len(t, groups, 3)
		assert.Equal(t, []string{"a"}, groups[0])
		assert.Equal(t, []string{"b"}, groups[1])
		assert.Equal(t, []string{"c", "d", "e"}, groups[2])
	})
}

func TestDetectWeakConcepts(t *testing.T) {
	t.Run("short answers counted", func(t *testing.T) {
		weak := DetectWeakConcepts([]string{"yes", "the process of photosynthesis converts light energy"})
		assert.Equal(t, 1, weak.ShortAnswers)
		assert.False(t, weak.LowVocabDiversity)
	})

	t.Run("repetitive vocabulary flagged", func(t *testing.T) {
		weak := DetectWeakConcepts([]string{"cat cat cat cat cat", "cat cat cat dog"})
		assert.Equal(t, 1, weak.ShortAnswers)
		assert.True(t, weak.LowVocabDiversity)
	})

	t.Run("empty input", func(t *testing.T) {
		weak := DetectWeakConcepts(nil)
		assert.Equal(t, 0, weak.ShortAnswers)
		assert.True(t, weak.LowVocabDiversity)
	})
}
