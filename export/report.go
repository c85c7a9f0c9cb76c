// Package export renders analysis results as downloadable PDF, Excel
// and plain-text reports.
package export

import (
	"fmt"
	"time"
)

// OverallSummary is the assignment-wide header block of a report.
type OverallSummary struct {
	TotalStudents     int     `json:"total_students"`
	TotalQuestions    int     `json:"total_questions"`
	OverallSimilarity float64 `json:"overall_similarity"`
	AvgInsightScore   float64 `json:"avg_insight_score"`
}

// QuestionReport is one question's block of a report.
type QuestionReport struct {
	QuestionID         string   `json:"question_id"`
	QuestionText       string   `json:"question_text"`
	TotalResponses     int      `json:"total_responses"`
	InsightScore       float64  `json:"insight_score"`
	ConfidenceScore    float64  `json:"confidence_score"`
	UnderstandingLevel string   `json:"understanding_level"`
	RiskLevel          string   `json:"risk_level"`
	TeachingAction     string   `json:"teaching_action"`
	FeedbackStatus     string   `json:"feedback_status"`
	CommonKeywords     []string `json:"common_keywords"`
	ShortAnswers       int      `json:"short_answers"`
	LowVocabDiversity  bool     `json:"low_vocab_diversity"`
}

// Report is the assembled export payload.
type Report struct {
	Title       string           `json:"title"`
	TeacherName string           `json:"teacher_name"`
	GeneratedAt time.Time        `json:"generated_at"`
	Overall     OverallSummary   `json:"overall_summary"`
	Questions   []QuestionReport `json:"questions"`
}

// Filename builds the timestamped attachment name for a report
// download.
func Filename(ext string, now time.Time) string {
	return fmt.Sprintf("assignment_report_%s.%s", now.Format("20060102_150405"), ext)
}
