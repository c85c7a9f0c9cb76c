package analysis

import "math"

// Scores are the derived per-question quality metrics.
type Scores struct {
	InsightScore    float64 `json:"insight_score"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// CalculateScores derives the insight score from similarity,
// vocabulary and answer-length signals, and a confidence score from
// how much data backs the analysis.
func CalculateScores(insight Insight, clusterCount int, weak WeakConcepts) Scores {
	total := insight.TotalResponses

	vocabScore := 1.0
	if weak.LowVocabDiversity {
		vocabScore = 0
	}

	lengthScore := 1.0
	if total > 0 {
		lengthScore = 1 - float64(weak.ShortAnswers)/float64(total)
	}

	insightScore := insight.AvgSimilarity*40 + vocabScore*20 + lengthScore*20 + 20
	insightScore = round2(math.Min(insightScore, 100))

	confidenceScore := math.Min(100, float64(total)*10+float64(clusterCount)*15)

	return Scores{InsightScore: insightScore, ConfidenceScore: confidenceScore}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
