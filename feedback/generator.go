// Package feedback drafts teacher-reviewable feedback from analysis
// results and explains how each insight was derived.
package feedback

import (
	"fmt"

	"github.com/edulens/insight/analysis"
	"github.com/edulens/insight/processing"
)

// StudentFeedback is one draft feedback entry for a student's answer
// to a single question.
type StudentFeedback struct {
	Answer             string  `json:"answer"`
	PatternStatus      string  `json:"pattern_status"`
	Suggestion         string  `json:"suggestion"`
	IsCommon           bool    `json:"is_common"`
	TotalResponses     int     `json:"total_responses"`
	ClassAvgSimilarity float64 `json:"class_avg_similarity"`
}

// GenerateStudentFeedback drafts per-question feedback for one
// student based on how their answers sit against the class pattern.
func GenerateStudentFeedback(student *processing.StudentRecord, insights map[string]analysis.Insight) map[string]StudentFeedback {
	drafts := make(map[string]StudentFeedback, len(student.Answers))

	for questionID, answer := range student.Answers {
		insight := insights[questionID]

		isCommon := false
		for _, a := range insight.FrequentAnswers {
			if a == answer {
				isCommon = true
				break
			}
		}

		var patternStatus, suggestion string
		switch {
		case insight.AvgSimilarity > 0.6:
			patternStatus = "common answer pattern"
			suggestion = "Your answer follows the common pattern observed in class."
		case insight.AvgSimilarity > 0.3:
			patternStatus = "moderate variation"
			suggestion = "Your answer shows some variation from the common pattern."
		default:
			patternStatus = "unique perspective"
			suggestion = "Your answer provides a unique perspective."
		}

		drafts[questionID] = StudentFeedback{
			Answer:             answer,
			PatternStatus:      patternStatus,
			Suggestion:         suggestion,
			IsCommon:           isCommon,
			TotalResponses:     insight.TotalResponses,
			ClassAvgSimilarity: round1(insight.AvgSimilarity * 100),
		}
	}

	return drafts
}

// ClassFeedback summarizes class performance on one question.
type ClassFeedback struct {
	Question           string   `json:"question"`
	TotalResponses     int      `json:"total_responses"`
	UnderstandingLevel string   `json:"understanding_level"`
	RiskLevel          string   `json:"risk_level"`
	Recommendation     string   `json:"recommendation"`
	TeachingPoints     []string `json:"teaching_points"`
	AvgSimilarity      float64  `json:"avg_similarity"`
	CommonKeywords     []string `json:"common_keywords"`
	ClustersCount      int      `json:"clusters_count"`
}

// GenerateClassFeedback drafts a class-level recommendation for one
// question from its insight, summary and weak-concept signals.
func GenerateClassFeedback(questionText string, insight analysis.Insight, summary analysis.Summary, weak analysis.WeakConcepts, scores analysis.Scores, clusterCount int) ClassFeedback {
	var points []string
	if weak.ShortAnswers > 0 {
		points = append(points, fmt.Sprintf("%d students gave short answers - encourage detailed explanations", weak.ShortAnswers))
	}
	if weak.LowVocabDiversity {
		points = append(points, "Limited vocabulary diversity observed - consider vocabulary-building activities")
	}
	if len(insight.FrequentAnswers) > 0 {
		points = append(points, fmt.Sprintf("%d common answer patterns detected", len(insight.FrequentAnswers)))
	}

	var recommendation string
	switch {
	case scores.InsightScore >= 75:
		recommendation = "Class shows strong understanding. Proceed to next topic with minor reinforcement."
	case scores.InsightScore >= 50:
		recommendation = "Moderate understanding. Review key concepts with examples."
	default:
		recommendation = "Review required. Consider re-teaching with guided practice."
	}

	keywords := make([]string, 0, 5)
	for i, wc := range insight.CommonWords {
		if i == 5 {
			break
		}
		keywords = append(keywords, wc.Word)
	}

	return ClassFeedback{
		Question:           questionText,
		TotalResponses:     insight.TotalResponses,
		UnderstandingLevel: summary.UnderstandingLevel,
		RiskLevel:          summary.RiskLevel,
		Recommendation:     recommendation,
		TeachingPoints:     points,
		AvgSimilarity:      round1(insight.AvgSimilarity * 100),
		CommonKeywords:     keywords,
		ClustersCount:      clusterCount,
	}
}

// Suggestion is one assignment-wide improvement recommendation.
type Suggestion struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

// GenerateImprovementSuggestions aggregates weak-concept signals
// across questions into prioritized teaching suggestions.
func GenerateImprovementSuggestions(weakByQuestion map[string]analysis.WeakConcepts, insights map[string]analysis.Insight, questionOrder []string) []Suggestion {
	var totalShort, totalLowVocab int
	for _, weak := range weakByQuestion {
		totalShort += weak.ShortAnswers
		if weak.LowVocabDiversity {
			totalLowVocab++
		}
	}

	var suggestions []Suggestion
	if totalShort > 0 {
		priority := "medium"
		if totalShort > 5 {
			priority = "high"
		}
		suggestions = append(suggestions, Suggestion{
			Type:     "answer_length",
			Priority: priority,
			Message:  fmt.Sprintf("%d students submitted short answers. Encourage more detailed responses.", totalShort),
		})
	}

	if totalLowVocab > 0 {
		suggestions = append(suggestions, Suggestion{
			Type:     "vocabulary",
			Priority: "medium",
			Message:  "Some students show limited vocabulary. Consider vocabulary-building exercises.",
		})
	}

	for _, questionID := range questionOrder {
		if insight, ok := insights[questionID]; ok && len(insight.FrequentAnswers) > 0 {
			suggestions = append(suggestions, Suggestion{
				Type:     "common_patterns",
				Priority: "low",
				Message:  fmt.Sprintf("Q%s: %d repeated answers found.", questionID, len(insight.FrequentAnswers)),
			})
		}
	}

	return suggestions
}
