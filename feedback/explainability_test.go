package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulens/insight/analysis"
)

func TestExplainCluster(t *testing.T) {
	t.Run("highly common", func(t *testing.T) {
		exp := ExplainCluster(1, []string{"a", "b", "c", "d", "e"}, 10)
		assert.Equal(t, "Highly Common", exp.Classification)
		assert.Equal(t, 50.0, exp.ClassPercentage)
		assert.Len(t, exp.SampleAnswers, 3, "samples capped at three")
	})

	t.Run("moderately common", func(t *testing.T) {
		exp := ExplainCluster(2, []string{"a", "b", "c"}, 10)
		assert.Equal(t, "Moderately Common", exp.Classification)
	})

	t.Run("less common", func(t *testing.T) {
		exp := ExplainCluster(3, []string{"a"}, 10)
		assert.Equal(t, "Less Common", exp.Classification)
		assert.Equal(t, []string{"a"}, exp.SampleAnswers)
	})
}

func TestExplainWeakConcept(t *testing.T) {
	t.Run("short answers flagged above 20 percent", func(t *testing.T) {
		exp := ExplainWeakConcept("short_answers", 3, 10)
		assert.True(t, exp.IsFlagged)
		assert.Equal(t, "medium", exp.Severity)
		assert.Contains(t, exp.Explanation, "4 or fewer words")
	})

	t.Run("short answers high severity above 40 percent", func(t *testing.T) {
		exp := ExplainWeakConcept("short_answers", 5, 10)
		assert.Equal(t, "high", exp.Severity)
	})

	t.Run("not flagged below threshold", func(t *testing.T) {
		exp := ExplainWeakConcept("short_answers", 1, 10)
		assert.False(t, exp.IsFlagged)
		assert.Equal(t, "Most students provided adequate-length answers.", exp.Explanation)
	})

	t.Run("low vocab", func(t *testing.T) {
		exp := ExplainWeakConcept("low_vocab", 10, 10)
		assert.True(t, exp.IsFlagged)
		assert.Contains(t, exp.Explanation, "vocabulary")
	})
}

func TestExplainSimilarityScore(t *testing.T) {
	assert.Equal(t, "High Similarity", ExplainSimilarityScore(0.8).Interpretation)
	assert.Equal(t, "Moderate Similarity", ExplainSimilarityScore(0.5).Interpretation)
	assert.Equal(t, "Low Similarity", ExplainSimilarityScore(0.1).Interpretation)
	assert.Equal(t, 80.0, ExplainSimilarityScore(0.8).ScorePercentage)
}

func TestExplainScores(t *testing.T) {
	exp := ExplainScores(analysis.Scores{InsightScore: 80, ConfidenceScore: 75})
	assert.Equal(t, "Reliable", exp.InsightReliability)
	assert.Equal(t, "Adequate", exp.DataAdequacy)

	exp = ExplainScores(analysis.Scores{InsightScore: 30, ConfidenceScore: 20})
	assert.Equal(t, "Less Reliable - small sample or diverse answers", exp.InsightReliability)
	assert.Equal(t, "Insufficient", exp.DataAdequacy)
}

func TestGenerateTransparencyReport(t *testing.T) {
	insight := analysis.Insight{TotalResponses: 10, AvgSimilarity: 0.7}
	clusters := [][]string{{"a", "b"}, {"c"}}
	weak := analysis.WeakConcepts{ShortAnswers: 3, LowVocabDiversity: true}
	scores := analysis.Scores{InsightScore: 70, ConfidenceScore: 60}

	report := GenerateTransparencyReport("Q1", insight, clusters, weak, scores)

	assert.Equal(t, "Q1", report.QuestionID)
	assert.Equal(t, 10, report.TotalResponses)
	assert.Equal(t, "High Similarity", report.SimilarityAnalysis.Interpretation)
	require.Len(t, report.ClusterExplanations, 2)
	assert.Equal(t, 1, report.ClusterExplanations[0].ClusterID)
	require.Len(t, report.WeakConceptExplanations, 2)
	assert.Equal(t, "short_answers", report.WeakConceptExplanations[0].ConceptType)
	assert.Equal(t, "low_vocab", report.WeakConceptExplanations[1].ConceptType)
}
