package services

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/edulens/insight/export"
	"github.com/edulens/insight/models"
	"github.com/edulens/insight/repository"
)

// ExportEndpoints serves downloadable analysis reports.
type ExportEndpoints struct {
	repo          *repository.GORMRepository
	analyticsRepo *repository.AnalyticsRepository
}

func NewExportEndpoints(repo *repository.GORMRepository, analyticsRepo *repository.AnalyticsRepository) *ExportEndpoints {
	return &ExportEndpoints{
		repo:          repo,
		analyticsRepo: analyticsRepo,
	}
}

func (e *ExportEndpoints) RegisterRoutes(r chi.Router) {
	r.Get("/assignments/{assignmentID}/export/pdf", e.PDFHandler)
	r.Get("/assignments/{assignmentID}/export/excel", e.ExcelHandler)
	r.Get("/assignments/{assignmentID}/export/text", e.TextHandler)
}

func (e *ExportEndpoints) PDFHandler(w http.ResponseWriter, r *http.Request) {
	report, ok := e.buildReport(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename("pdf", report.GeneratedAt)+`"`)
	if err := export.WritePDF(w, *report); err != nil {
		slog.Error("Failed to write PDF report", "error", err)
	}
}

func (e *ExportEndpoints) ExcelHandler(w http.ResponseWriter, r *http.Request) {
	report, ok := e.buildReport(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename("xlsx", report.GeneratedAt)+`"`)
	if err := export.WriteExcel(w, *report); err != nil {
		slog.Error("Failed to write Excel report", "error", err)
	}
}

func (e *ExportEndpoints) TextHandler(w http.ResponseWriter, r *http.Request) {
	report, ok := e.buildReport(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename("txt", report.GeneratedAt)+`"`)
	if err := export.WriteText(w, *report); err != nil {
		slog.Error("Failed to write text report", "error", err)
	}
}

// buildReport assembles the report for an assignment's latest
// completed analysis. Writes the error response on failure.
func (e *ExportEndpoints) buildReport(w http.ResponseWriter, r *http.Request) (*export.Report, bool) {
	teacher, ok := TeacherFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return nil, false
	}

	assignmentID := chi.URLParam(r, "assignmentID")
	assignment, err := e.repo.GetAssignment(r.Context(), assignmentID, teacher.ID)
	if err != nil {
		http.Error(w, "Failed to get assignment", http.StatusInternalServerError)
		return nil, false
	}
	if assignment == nil {
		http.Error(w, "Assignment not found", http.StatusNotFound)
		return nil, false
	}

	run, err := e.analyticsRepo.GetAnalysisRun(r.Context(), assignmentID)
	if err != nil {
		http.Error(w, "Failed to get analysis", http.StatusInternalServerError)
		return nil, false
	}
	if run == nil || run.Status != "completed" {
		http.Error(w, "No completed analysis for this assignment", http.StatusNotFound)
		return nil, false
	}

	return &export.Report{
		Title:       assignment.Title,
		TeacherName: teacher.FullName,
		GeneratedAt: time.Now(),
		Overall: export.OverallSummary{
			TotalStudents:     run.TotalStudents,
			TotalQuestions:    run.TotalQuestions,
			OverallSimilarity: run.OverallSimilarity,
			AvgInsightScore:   run.AvgInsightScore,
		},
		Questions: questionReports(run.Insights, run.Drafts),
	}, true
}

// questionReports maps stored insights and their question-scope drafts
// into report blocks. Reviewed feedback wins over the computed teaching
// action: an edited or approved draft body replaces it, while rejected
// drafts are left out of reports entirely.
func questionReports(insights []models.QuestionInsight, drafts []models.FeedbackDraft) []export.QuestionReport {
	draftsByQuestion := make(map[string]models.FeedbackDraft)
	for _, draft := range drafts {
		if draft.Scope == models.FeedbackScopeQuestion {
			draftsByQuestion[draft.QuestionID] = draft
		}
	}

	questions := make([]export.QuestionReport, 0, len(insights))
	for _, qi := range insights {
		var keywords []struct {
			Word  string `json:"word"`
			Count int    `json:"count"`
		}
		if qi.CommonKeywords != "" {
			if err := json.Unmarshal([]byte(qi.CommonKeywords), &keywords); err != nil {
				slog.Warn("Failed to decode keywords for report", "question_id", qi.QuestionID, "error", err)
			}
		}
		words := make([]string, 0, len(keywords))
		for _, kw := range keywords {
			words = append(words, kw.Word)
		}

		action := qi.TeachingAction
		status := ""
		if draft, ok := draftsByQuestion[qi.QuestionID]; ok {
			switch draft.Status {
			case models.FeedbackStatusEdited, models.FeedbackStatusApproved:
				action = draft.Body
				status = draft.Status
			case models.FeedbackStatusRejected:
				// excluded from reports
			default:
				status = draft.Status
			}
		}

		questions = append(questions, export.QuestionReport{
			QuestionID:         qi.QuestionID,
			QuestionText:       qi.QuestionText,
			TotalResponses:     qi.TotalResponses,
			InsightScore:       qi.InsightScore,
			ConfidenceScore:    qi.ConfidenceScore,
			UnderstandingLevel: qi.UnderstandingLevel,
			RiskLevel:          qi.RiskLevel,
			TeachingAction:     action,
			FeedbackStatus:     status,
			CommonKeywords:     words,
			ShortAnswers:       qi.ShortAnswers,
			LowVocabDiversity:  qi.LowVocabDiversity,
		})
	}
	return questions
}
