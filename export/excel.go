package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WriteExcel renders the report as an .xlsx workbook with a summary
// sheet and a per-question analysis sheet.
func WriteExcel(w io.Writer, report Report) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"8B5CF6"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F3F4F6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create label style: %w", err)
	}

	// Summary sheet
	summary := "Summary"
	if err := f.SetSheetName(f.GetSheetName(0), summary); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	f.SetCellValue(summary, "A1", "Assignment Analytics Report")
	f.SetCellStyle(summary, "A1", "B1", headerStyle)
	f.MergeCell(summary, "A1", "B1")

	summaryRows := [][]any{
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04")},
		{"Teacher", report.TeacherName},
		{"Assignment", report.Title},
		{"Total Students", report.Overall.TotalStudents},
		{"Total Questions", report.Overall.TotalQuestions},
		{"Overall Similarity", fmt.Sprintf("%.2f%%", report.Overall.OverallSimilarity)},
		{"Average Insight Score", report.Overall.AvgInsightScore},
	}
	for i, row := range summaryRows {
		labelCell := fmt.Sprintf("A%d", i+3)
		valueCell := fmt.Sprintf("B%d", i+3)
		f.SetCellValue(summary, labelCell, row[0])
		f.SetCellValue(summary, valueCell, row[1])
		f.SetCellStyle(summary, labelCell, labelCell, labelStyle)
	}
	f.SetColWidth(summary, "A", "A", 24)
	f.SetColWidth(summary, "B", "B", 40)

	// Question analysis sheet
	questions := "Questions"
	if _, err := f.NewSheet(questions); err != nil {
		return fmt.Errorf("failed to add questions sheet: %w", err)
	}

	headers := []string{
		"Question ID", "Question", "Responses", "Insight Score", "Confidence",
		"Understanding", "Risk", "Teaching Action", "Feedback Status",
		"Common Keywords", "Short Answers",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(questions, cell, h)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(questions, "A1", lastHeader, headerStyle)

	for i, q := range report.Questions {
		values := []any{
			q.QuestionID, q.QuestionText, q.TotalResponses, q.InsightScore,
			q.ConfidenceScore, q.UnderstandingLevel, q.RiskLevel,
			q.TeachingAction, q.FeedbackStatus,
			strings.Join(q.CommonKeywords, ", "), q.ShortAnswers,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(questions, cell, v)
		}
	}
	f.SetColWidth(questions, "B", "B", 40)
	f.SetColWidth(questions, "H", "H", 50)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
