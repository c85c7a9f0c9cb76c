package export

import (
	"fmt"
	"io"
	"strings"
)

// WriteText renders the report as a plain-text document.
func WriteText(w io.Writer, report Report) error {
	var b strings.Builder

	rule := strings.Repeat("=", 60)
	b.WriteString(rule + "\n")
	b.WriteString("ASSIGNMENT ANALYTICS REPORT\n")
	b.WriteString(rule + "\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", report.GeneratedAt.Format("January 2, 2006 at 15:04"))
	fmt.Fprintf(&b, "Teacher:   %s\n", report.TeacherName)
	if report.Title != "" {
		fmt.Fprintf(&b, "Assignment: %s\n", report.Title)
	}
	b.WriteString("\n")

	b.WriteString("OVERALL SUMMARY\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	fmt.Fprintf(&b, "Total Students:        %d\n", report.Overall.TotalStudents)
	fmt.Fprintf(&b, "Total Questions:       %d\n", report.Overall.TotalQuestions)
	fmt.Fprintf(&b, "Overall Similarity:    %.2f%%\n", report.Overall.OverallSimilarity)
	fmt.Fprintf(&b, "Average Insight Score: %.2f\n\n", report.Overall.AvgInsightScore)

	for _, q := range report.Questions {
		fmt.Fprintf(&b, "QUESTION %s\n", q.QuestionID)
		b.WriteString(strings.Repeat("-", 60) + "\n")
		if q.QuestionText != "" {
			fmt.Fprintf(&b, "Question:          %s\n", q.QuestionText)
		}
		fmt.Fprintf(&b, "Responses:         %d\n", q.TotalResponses)
		fmt.Fprintf(&b, "Insight Score:     %.2f\n", q.InsightScore)
		fmt.Fprintf(&b, "Confidence Score:  %.2f\n", q.ConfidenceScore)
		fmt.Fprintf(&b, "Understanding:     %s\n", q.UnderstandingLevel)
		fmt.Fprintf(&b, "Risk Level:        %s\n", q.RiskLevel)
		if len(q.CommonKeywords) > 0 {
			fmt.Fprintf(&b, "Common Keywords:   %s\n", strings.Join(q.CommonKeywords, ", "))
		}
		fmt.Fprintf(&b, "Short Answers:     %d\n", q.ShortAnswers)
		if q.LowVocabDiversity {
			b.WriteString("Note:              Low vocabulary diversity detected\n")
		}
		fmt.Fprintf(&b, "Teaching Action:   %s\n", q.TeachingAction)
		if q.FeedbackStatus != "" {
			fmt.Fprintf(&b, "Feedback Status:   %s\n", q.FeedbackStatus)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
