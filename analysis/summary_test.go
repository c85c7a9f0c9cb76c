package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateScores(t *testing.T) {
	t.Run("strong signals max out the insight score", func(t *testing.T) {
		insight := Insight{TotalResponses: 2, AvgSimilarity: 1.0}
		scores := CalculateScores(insight, 1, WeakConcepts{})

		assert.Equal(t, 100.0, scores.InsightScore)
		assert.Equal(t, 35.0, scores.ConfidenceScore)
	})

	t.Run("weak signals floor the insight score", func(t *testing.T) {
		insight := Insight{TotalResponses: 2, AvgSimilarity: 0}
		scores := CalculateScores(insight, 2, WeakConcepts{ShortAnswers: 2, LowVocabDiversity: true})

		assert.Equal(t, 20.0, scores.InsightScore)
		assert.Equal(t, 50.0, scores.ConfidenceScore)
	})

	t.Run("confidence is capped at 100", func(t *testing.T) {
		insight := Insight{TotalResponses: 30, AvgSimilarity: 0.5}
		scores := CalculateScores(insight, 5, WeakConcepts{})

		assert.Equal(t, 100.0, scores.ConfidenceScore)
	})
}

func TestGenerateStructuredSummaryHighUnderstanding(t *testing.T) {
	insight := Insight{TotalResponses: 10, AvgSimilarity: 0.8}
	summary := GenerateStructuredSummary("Q1", insight, WeakConcepts{}, Scores{InsightScore: 80})

	assert.Equal(t, "High", summary.UnderstandingLevel)
	assert.Equal(t, "Highly similar responses (possible memorization or clear understanding)", summary.PatternType)
	assert.Equal(t, "Low", summary.RiskLevel)
	assert.Equal(t, "Minor clarification and reinforcement recommended.", summary.TeachingAction)
	assert.Contains(t, summary.SummaryText, "For Question Q1")
	assert.Contains(t, summary.SummaryText, "High")
}

func TestGenerateStructuredSummaryLowUnderstanding(t *testing.T) {
	insight := Insight{TotalResponses: 10, AvgSimilarity: 0.1}
	summary := GenerateStructuredSummary("Q2", insight, WeakConcepts{ShortAnswers: 1}, Scores{InsightScore: 30})

	assert.Equal(t, "Low", summary.UnderstandingLevel)
	assert.Equal(t, "Highly diverse responses (concept confusion possible)", summary.PatternType)
	assert.Equal(t, "Re-teach the concept with examples and guided practice.", summary.TeachingAction)
}

func TestDistributeSimilarity(t *testing.T) {
	dist := DistributeSimilarity([]float64{0.9, 0.61, 0.6, 0.31, 0.3, 0.0})

	assert.Equal(t, SimilarityDistribution{High: 2, Medium: 2, Low: 2}, dist)
	assert.Equal(t, SimilarityDistribution{}, DistributeSimilarity(nil))
}

func TestGenerateStructuredSummaryHighRisk(t *testing.T) {
	insight := Insight{TotalResponses: 4, AvgSimilarity: 0.5}
	summary := GenerateStructuredSummary("Q3", insight, WeakConcepts{ShortAnswers: 2}, Scores{InsightScore: 60})

	assert.Equal(t, "Moderate", summary.UnderstandingLevel)
	assert.Equal(t, "High", summary.RiskLevel)
	assert.Equal(t, "Focus on encouraging detailed explanations and deeper thinking.", summary.TeachingAction)
}
