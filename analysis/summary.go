package analysis

import "fmt"

// Summary is the structured, human-readable reading of a question's
// analysis.
type Summary struct {
	UnderstandingLevel string `json:"understanding_level"`
	PatternType        string `json:"pattern_type"`
	RiskLevel          string `json:"risk_level"`
	TeachingAction     string `json:"teaching_action"`
	SummaryText        string `json:"summary_text"`
}

// GenerateStructuredSummary turns a question's insight, weak-concept
// signals and scores into level labels and a recommended teaching
// action.
func GenerateStructuredSummary(questionID string, insight Insight, weak WeakConcepts, scores Scores) Summary {
	total := insight.TotalResponses
	similarity := insight.AvgSimilarity

	var understanding string
	switch {
	case scores.InsightScore >= 75:
		understanding = "High"
	case scores.InsightScore >= 50:
		understanding = "Moderate"
	default:
		understanding = "Low"
	}

	var pattern string
	switch {
	case similarity > 0.6:
		pattern = "Highly similar responses (possible memorization or clear understanding)"
	case similarity > 0.3:
		pattern = "Moderate variation in answers"
	default:
		pattern = "Highly diverse responses (concept confusion possible)"
	}

	var risk string
	switch {
	case float64(weak.ShortAnswers) > float64(total)*0.4:
		risk = "High"
	case float64(weak.ShortAnswers) > float64(total)*0.2:
		risk = "Medium"
	default:
		risk = "Low"
	}

	var action string
	switch {
	case understanding == "Low":
		action = "Re-teach the concept with examples and guided practice."
	case risk == "High":
		action = "Focus on encouraging detailed explanations and deeper thinking."
	default:
		action = "Minor clarification and reinforcement recommended."
	}

	text := fmt.Sprintf(
		"For Question %s, the overall understanding level is %s. Responses show %s. The detected risk level is %s. Recommended action: %s",
		questionID, understanding, pattern, risk, action,
	)

	return Summary{
		UnderstandingLevel: understanding,
		PatternType:        pattern,
		RiskLevel:          risk,
		TeachingAction:     action,
		SummaryText:        text,
	}
}

// SimilarityDistribution counts questions per similarity band, using
// the same 0.6/0.3 cutoffs as the pattern classification.
type SimilarityDistribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

func DistributeSimilarity(similarities []float64) SimilarityDistribution {
	var dist SimilarityDistribution
	for _, sim := range similarities {
		switch {
		case sim > 0.6:
			dist.High++
		case sim > 0.3:
			dist.Medium++
		default:
			dist.Low++
		}
	}
	return dist
}
