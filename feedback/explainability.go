package feedback

import (
	"fmt"
	"math"

	"github.com/edulens/insight/analysis"
)

// ClusterExplanation says why answers were grouped together and how
// much of the class shares the pattern.
type ClusterExplanation struct {
	ClusterID       int      `json:"cluster_id"`
	ClusterSize     int      `json:"cluster_size"`
	ClassPercentage float64  `json:"class_percentage"`
	Classification  string   `json:"classification"`
	Explanation     string   `json:"explanation"`
	SampleAnswers   []string `json:"sample_answers"`
}

// ExplainCluster classifies how widely shared a cluster's answer
// pattern is.
func ExplainCluster(clusterID int, cluster []string, totalAnswers int) ClusterExplanation {
	percentage := 0.0
	if totalAnswers > 0 {
		percentage = round1(float64(len(cluster)) / float64(totalAnswers) * 100)
	}

	var classification, explanation string
	switch {
	case percentage > 40:
		classification = "Highly Common"
		explanation = "This answer pattern is shared by a large portion of the class."
	case percentage > 20:
		classification = "Moderately Common"
		explanation = "Several students shared this answer pattern."
	default:
		classification = "Less Common"
		explanation = "Fewer students shared this answer pattern."
	}

	samples := cluster
	if len(samples) > 3 {
		samples = samples[:3]
	}

	return ClusterExplanation{
		ClusterID:       clusterID,
		ClusterSize:     len(cluster),
		ClassPercentage: percentage,
		Classification:  classification,
		Explanation:     explanation,
		SampleAnswers:   samples,
	}
}

// WeakConceptExplanation says why a weak-concept signal was (or was
// not) flagged.
type WeakConceptExplanation struct {
	ConceptType string  `json:"concept_type"`
	Count       int     `json:"count"`
	Total       int     `json:"total"`
	Percentage  float64 `json:"percentage"`
	IsFlagged   bool    `json:"is_flagged"`
	Explanation string  `json:"explanation"`
	Severity    string  `json:"severity"`
}

// ExplainWeakConcept explains a weak-concept count against the class
// size with a 20% flag threshold.
func ExplainWeakConcept(conceptType string, count, total int) WeakConceptExplanation {
	percentage := 0.0
	if total > 0 {
		percentage = round1(float64(count) / float64(total) * 100)
	}
	flagged := percentage > 20

	explanation := "Concept analysis complete."
	severity := "low"
	switch conceptType {
	case "short_answers":
		if flagged {
			explanation = fmt.Sprintf("%d students (%.1f%%) gave answers with 4 or fewer words. This may indicate shallow understanding or rushing.", count, percentage)
			severity = "medium"
			if percentage > 40 {
				severity = "high"
			}
		} else {
			explanation = "Most students provided adequate-length answers."
		}
	case "low_vocab":
		if flagged {
			explanation = fmt.Sprintf("Students showed limited vocabulary diversity (%.1f%% unique words). This may indicate need for vocabulary building.", percentage)
			severity = "medium"
		} else {
			explanation = "Students showed good vocabulary diversity."
		}
	}

	return WeakConceptExplanation{
		ConceptType: conceptType,
		Count:       count,
		Total:       total,
		Percentage:  percentage,
		IsFlagged:   flagged,
		Explanation: explanation,
		Severity:    severity,
	}
}

// SimilarityExplanation interprets a TF-IDF similarity score.
type SimilarityExplanation struct {
	Score           float64 `json:"score"`
	ScorePercentage float64 `json:"score_percentage"`
	Interpretation  string  `json:"interpretation"`
	Meaning         string  `json:"meaning"`
	Confidence      string  `json:"confidence"`
}

// ExplainSimilarityScore maps a similarity score into its reading.
func ExplainSimilarityScore(score float64) SimilarityExplanation {
	exp := SimilarityExplanation{
		Score:           score,
		ScorePercentage: round1(score * 100),
	}
	switch {
	case score > 0.6:
		exp.Interpretation = "High Similarity"
		exp.Meaning = "Students gave very similar answers - either due to memorization or clear understanding of the concept."
		exp.Confidence = "High"
	case score > 0.3:
		exp.Interpretation = "Moderate Similarity"
		exp.Meaning = "Students showed variation in their answers with some common patterns."
		exp.Confidence = "Medium"
	default:
		exp.Interpretation = "Low Similarity"
		exp.Meaning = "Students gave diverse answers - may indicate confusion or unique interpretations."
		exp.Confidence = "Medium"
	}
	return exp
}

// ScoreExplanation interprets the insight and confidence scores.
type ScoreExplanation struct {
	InsightScore       float64 `json:"insight_score"`
	InsightMeaning     string  `json:"insight_meaning"`
	InsightReliability string  `json:"insight_reliability"`
	ConfidenceScore    float64 `json:"confidence_score"`
	ConfidenceMeaning  string  `json:"confidence_meaning"`
	DataAdequacy       string  `json:"data_adequacy"`
}

// ExplainScores maps the insight and confidence scores into their
// readings.
func ExplainScores(scores analysis.Scores) ScoreExplanation {
	exp := ScoreExplanation{
		InsightScore:    scores.InsightScore,
		ConfidenceScore: scores.ConfidenceScore,
	}

	switch {
	case scores.InsightScore >= 75:
		exp.InsightMeaning = "High understanding detected. Students demonstrated clear grasp of the concept."
		exp.InsightReliability = "Reliable"
	case scores.InsightScore >= 50:
		exp.InsightMeaning = "Moderate understanding. Some students grasp the concept, others may need help."
		exp.InsightReliability = "Moderately Reliable"
	default:
		exp.InsightMeaning = "Low understanding. Significant review and re-teaching may be needed."
		exp.InsightReliability = "Less Reliable - small sample or diverse answers"
	}

	switch {
	case scores.ConfidenceScore >= 70:
		exp.ConfidenceMeaning = "High confidence in analysis due to sufficient data."
		exp.DataAdequacy = "Adequate"
	case scores.ConfidenceScore >= 40:
		exp.ConfidenceMeaning = "Moderate confidence. More data would improve accuracy."
		exp.DataAdequacy = "Partial"
	default:
		exp.ConfidenceMeaning = "Low confidence. Limited data may affect accuracy."
		exp.DataAdequacy = "Insufficient"
	}

	return exp
}

// TransparencyReport is the full explainability record for one
// question.
type TransparencyReport struct {
	QuestionID              string                   `json:"question_id"`
	TotalResponses          int                      `json:"total_responses"`
	SimilarityAnalysis      SimilarityExplanation    `json:"similarity_analysis"`
	ScoreExplanation        ScoreExplanation         `json:"score_explanation"`
	ClusterExplanations     []ClusterExplanation     `json:"cluster_explanations"`
	WeakConceptExplanations []WeakConceptExplanation `json:"weak_concept_explanations"`
}

// GenerateTransparencyReport assembles the explainability record for
// one question's analysis.
func GenerateTransparencyReport(questionID string, insight analysis.Insight, clusters [][]string, weak analysis.WeakConcepts, scores analysis.Scores) TransparencyReport {
	report := TransparencyReport{
		QuestionID:         questionID,
		TotalResponses:     insight.TotalResponses,
		SimilarityAnalysis: ExplainSimilarityScore(insight.AvgSimilarity),
		ScoreExplanation:   ExplainScores(scores),
	}

	for i, cluster := range clusters {
		report.ClusterExplanations = append(report.ClusterExplanations, ExplainCluster(i+1, cluster, insight.TotalResponses))
	}

	report.WeakConceptExplanations = append(report.WeakConceptExplanations,
		ExplainWeakConcept("short_answers", weak.ShortAnswers, insight.TotalResponses))
	lowVocabCount := 0
	if weak.LowVocabDiversity {
		lowVocabCount = insight.TotalResponses
	}
	report.WeakConceptExplanations = append(report.WeakConceptExplanations,
		ExplainWeakConcept("low_vocab", lowVocabCount, insight.TotalResponses))

	return report
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
