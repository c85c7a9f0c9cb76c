package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

// WritePDF renders the report as an A4 PDF document.
func WritePDF(w io.Writer, report Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(139, 92, 246)
	pdf.CellFormat(0, 12, "Assignment Analytics Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(55, 65, 81)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("January 2, 2006 at 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Teacher: %s", report.TeacherName), "", 1, "L", false, 0, "")
	if report.Title != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Assignment: %s", report.Title), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// Overall summary table
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(99, 102, 241)
	pdf.CellFormat(0, 8, "Overall Summary", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	summaryRows := [][2]string{
		{"Total Students", fmt.Sprintf("%d", report.Overall.TotalStudents)},
		{"Total Questions", fmt.Sprintf("%d", report.Overall.TotalQuestions)},
		{"Overall Similarity", fmt.Sprintf("%.2f%%", report.Overall.OverallSimilarity)},
		{"Average Insight Score", fmt.Sprintf("%.2f", report.Overall.AvgInsightScore)},
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(55, 65, 81)
	for _, row := range summaryRows {
		pdf.SetFillColor(243, 244, 246)
		pdf.CellFormat(60, 8, row[0], "1", 0, "L", true, 0, "")
		pdf.CellFormat(50, 8, row[1], "1", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// Per-question blocks
	for _, q := range report.Questions {
		if pdf.GetY() > 230 {
			pdf.AddPage()
		}

		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(6, 182, 212)
		pdf.CellFormat(0, 8, fmt.Sprintf("Question %s", q.QuestionID), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(55, 65, 81)
		if q.QuestionText != "" {
			pdf.MultiCell(0, 5, q.QuestionText, "", "L", false)
			pdf.Ln(1)
		}

		rows := [][2]string{
			{"Responses", fmt.Sprintf("%d", q.TotalResponses)},
			{"Insight Score", fmt.Sprintf("%.2f", q.InsightScore)},
			{"Confidence Score", fmt.Sprintf("%.2f", q.ConfidenceScore)},
			{"Understanding", q.UnderstandingLevel},
			{"Risk Level", q.RiskLevel},
		}
		if len(q.CommonKeywords) > 0 {
			rows = append(rows, [2]string{"Common Keywords", strings.Join(q.CommonKeywords, ", ")})
		}
		rows = append(rows, [2]string{"Short Answers", fmt.Sprintf("%d", q.ShortAnswers)})
		if q.FeedbackStatus != "" {
			rows = append(rows, [2]string{"Feedback Status", q.FeedbackStatus})
		}
		for _, row := range rows {
			pdf.SetFillColor(243, 244, 246)
			pdf.CellFormat(50, 7, row[0], "1", 0, "L", true, 0, "")
			pdf.CellFormat(100, 7, row[1], "1", 1, "L", false, 0, "")
		}

		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 7, "Teaching Action:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, q.TeachingAction, "", "L", false)
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
