package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edulens/insight/analysis"
	"github.com/edulens/insight/feedback"
	"github.com/edulens/insight/models"
	"github.com/edulens/insight/processing"
	"github.com/edulens/insight/repository"
	ws "github.com/edulens/insight/websocket"
)

// AnalyzerService runs the analysis pipeline for an assignment: group
// responses by question, compute similarity, clusters and scores,
// then draft feedback for teacher review. Runs execute in a
// background goroutine; progress is pushed over the WebSocket hub.
type AnalyzerService struct {
	repo          *repository.GORMRepository
	analyticsRepo *repository.AnalyticsRepository
	gemini        *GeminiService
	cache         *CacheService
	hub           *ws.Hub
}

func NewAnalyzerService(repo *repository.GORMRepository, analyticsRepo *repository.AnalyticsRepository, gemini *GeminiService, cache *CacheService, hub *ws.Hub) *AnalyzerService {
	return &AnalyzerService{
		repo:          repo,
		analyticsRepo: analyticsRepo,
		gemini:        gemini,
		cache:         cache,
		hub:           hub,
	}
}

// questionResult bundles the per-question derivations computed after
// the base insight.
type questionResult struct {
	clusters [][]string
	weak     analysis.WeakConcepts
	scores   analysis.Scores
	summary  analysis.Summary
}

// StartAnalysis kicks off an analysis run in the background and
// returns the running record immediately.
func (a *AnalyzerService) StartAnalysis(ctx context.Context, assignment *models.Assignment) (*models.AnalysisRun, error) {
	run := &models.AnalysisRun{
		ID:           uuid.New().String(),
		AssignmentID: assignment.ID,
		Status:       "running",
		StartedAt:    time.Now(),
	}
	if err := a.analyticsRepo.CreateAnalysisRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create analysis run: %w", err)
	}

	if err := a.repo.UpdateAssignmentStatus(ctx, assignment.ID, "analyzing"); err != nil {
		return nil, fmt.Errorf("failed to mark assignment analyzing: %w", err)
	}

	a.cache.InvalidateAnalysis(ctx, assignment.ID)

	// Detach from the request context; the run outlives the request.
	go a.runPipeline(context.Background(), assignment, run)

	return run, nil
}

func (a *AnalyzerService) runPipeline(ctx context.Context, assignment *models.Assignment, run *models.AnalysisRun) {
	start := time.Now()
	teacherID := assignment.TeacherID

	fail := func(stage string, err error) {
		slog.Error("Analysis run failed", "assignment_id", assignment.ID, "stage", stage, "error", err)
		if dbErr := a.analyticsRepo.FailAnalysisRun(ctx, run.ID, err); dbErr != nil {
			slog.Error("Failed to record analysis failure", "run_id", run.ID, "error", dbErr)
		}
		if dbErr := a.repo.UpdateAssignmentStatus(ctx, assignment.ID, "failed"); dbErr != nil {
			slog.Error("Failed to mark assignment failed", "assignment_id", assignment.ID, "error", dbErr)
		}
		a.publish(teacherID, ws.ProgressEvent{
			Type:         ws.EventAnalysisFailed,
			AssignmentID: assignment.ID,
			Stage:        stage,
			Message:      err.Error(),
		})
	}

	a.progress(teacherID, assignment.ID, "loading", 5, "Loading student responses")

	responses, err := a.repo.GetAssignmentResponses(ctx, assignment.ID)
	if err != nil {
		fail("loading", err)
		return
	}
	if len(responses) == 0 {
		fail("loading", fmt.Errorf("assignment has no responses"))
		return
	}

	rows := make([]processing.Row, len(responses))
	for i, resp := range responses {
		rows[i] = processing.Row{
			StudentID:    resp.StudentID,
			StudentName:  resp.StudentName,
			QuestionID:   resp.QuestionID,
			QuestionText: resp.QuestionText,
			Answer:       resp.Answer,
		}
	}

	a.progress(teacherID, assignment.ID, "grouping", 15, "Grouping responses by question")

	grouped := processing.GroupByQuestion(rows)
	students := processing.Students(rows)
	questionIDs := grouped.QuestionIDs()
	questionTexts := make(map[string]string, len(questionIDs))
	for _, row := range rows {
		if _, ok := questionTexts[row.QuestionID]; !ok {
			questionTexts[row.QuestionID] = row.QuestionText
		}
	}

	a.progress(teacherID, assignment.ID, "analyzing", 35, "Computing similarity and insights")

	insights := analysis.AnalyzeGroupedAnswers(grouped)

	results := make(map[string]questionResult, len(questionIDs))

	var similaritySum, insightSum float64
	for _, questionID := range questionIDs {
		answers := grouped.Answers(questionID)
		insight := insights[questionID]

		clusters := analysis.ClusterAnswers(answers)
		weak := analysis.DetectWeakConcepts(answers)
		scores := analysis.CalculateScores(insight, len(clusters), weak)
		summary := analysis.GenerateStructuredSummary(questionID, insight, weak, scores)

		results[questionID] = questionResult{
			clusters: clusters,
			weak:     weak,
			scores:   scores,
			summary:  summary,
		}
		similaritySum += insight.AvgSimilarity
		insightSum += scores.InsightScore
	}

	a.progress(teacherID, assignment.ID, "drafting", 70, "Drafting feedback for review")

	var insightRows []models.QuestionInsight
	var drafts []models.FeedbackDraft

	for _, questionID := range questionIDs {
		insight := insights[questionID]
		res := results[questionID]

		insightRows = append(insightRows, models.QuestionInsight{
			QuestionID:         questionID,
			QuestionText:       questionTexts[questionID],
			TotalResponses:     insight.TotalResponses,
			AvgSimilarity:      insight.AvgSimilarity,
			Difficulty:         insight.Difficulty,
			InsightScore:       res.scores.InsightScore,
			ConfidenceScore:    res.scores.ConfidenceScore,
			UnderstandingLevel: res.summary.UnderstandingLevel,
			RiskLevel:          res.summary.RiskLevel,
			PatternType:        res.summary.PatternType,
			SummaryText:        res.summary.SummaryText,
			TeachingAction:     res.summary.TeachingAction,
			CommonKeywords:     mustJSON(insight.CommonWords),
			FrequentAnswers:    mustJSON(insight.FrequentAnswers),
			Clusters:           mustJSON(res.clusters),
			CommonMistakes:     mustJSON(insight.CommonMistakes),
			ShortAnswers:       res.weak.ShortAnswers,
			LowVocabDiversity:  res.weak.LowVocabDiversity,
			ClusterCount:       len(res.clusters),
		})

		drafts = append(drafts, models.FeedbackDraft{
			Scope:      models.FeedbackScopeQuestion,
			QuestionID: questionID,
			Body:       a.questionDraftBody(ctx, questionID, questionTexts[questionID], insight, res.summary, res.weak, res.scores, len(res.clusters)),
			Status:     models.FeedbackStatusDraft,
		})
	}

	drafts = append(drafts, models.FeedbackDraft{
		Scope:  models.FeedbackScopeClass,
		Body:   a.classDraftBody(ctx, assignment.Title, questionIDs, questionTexts, insights, results),
		Status: models.FeedbackStatusDraft,
	})

	studentIDs := make([]string, 0, len(students))
	for id := range students {
		studentIDs = append(studentIDs, id)
	}
	sort.Strings(studentIDs)
	for _, studentID := range studentIDs {
		drafts = append(drafts, models.FeedbackDraft{
			Scope:     models.FeedbackScopeStudent,
			StudentID: studentID,
			Body:      studentDraftBody(students[studentID], insights),
			Status:    models.FeedbackStatusDraft,
		})
	}

	a.progress(teacherID, assignment.ID, "saving", 90, "Saving analysis results")

	run.TotalStudents = len(students)
	run.TotalQuestions = len(questionIDs)
	if len(questionIDs) > 0 {
		run.OverallSimilarity = round2(similaritySum / float64(len(questionIDs)) * 100)
		run.AvgInsightScore = round2(insightSum / float64(len(questionIDs)))
	}
	run.Status = "completed"

	if err := a.analyticsRepo.CompleteAnalysisRun(ctx, run, insightRows, drafts); err != nil {
		fail("saving", err)
		return
	}

	if err := a.repo.UpdateAssignmentStatus(ctx, assignment.ID, "analyzed"); err != nil {
		fail("saving", err)
		return
	}

	a.cache.InvalidateAnalysis(ctx, assignment.ID)

	slog.Info("Analysis run completed",
		"assignment_id", assignment.ID,
		"questions", len(questionIDs),
		"students", len(students),
		"drafts", len(drafts),
		"duration", time.Since(start))

	a.publish(teacherID, ws.ProgressEvent{
		Type:         ws.EventAnalysisComplete,
		AssignmentID: assignment.ID,
		Percent:      100,
		Message:      fmt.Sprintf("Analyzed %d questions from %d students", len(questionIDs), len(students)),
	})
}

// questionDraftBody builds the editable feedback text for one
// question. Gemini narratives are preferred; template text from the
// class feedback generator is the fallback.
func (a *AnalyzerService) questionDraftBody(ctx context.Context, questionID, questionText string, insight analysis.Insight, summary analysis.Summary, weak analysis.WeakConcepts, scores analysis.Scores, clusterCount int) string {
	if a.gemini != nil {
		keywords := make([]string, 0, len(insight.CommonWords))
		for _, wc := range insight.CommonWords {
			keywords = append(keywords, wc.Word)
		}
		narrative, err := a.gemini.GenerateFeedbackNarrative(ctx, QuestionContext{
			QuestionID:         questionID,
			QuestionText:       questionText,
			TotalResponses:     insight.TotalResponses,
			AvgSimilarity:      insight.AvgSimilarity,
			Difficulty:         insight.Difficulty,
			UnderstandingLevel: summary.UnderstandingLevel,
			CommonKeywords:     keywords,
			ShortAnswers:       weak.ShortAnswers,
		})
		if err == nil {
			return narrative
		}
		slog.Warn("Gemini narrative unavailable, using template feedback", "question_id", questionID, "error", err)
	}

	cf := feedback.GenerateClassFeedback(questionText, insight, summary, weak, scores, clusterCount)
	var sb strings.Builder
	sb.WriteString(cf.Recommendation)
	for _, point := range cf.TeachingPoints {
		sb.WriteString("\n- ")
		sb.WriteString(point)
	}
	return sb.String()
}

// classDraftBody builds the assignment-wide feedback draft.
func (a *AnalyzerService) classDraftBody(ctx context.Context, title string, questionIDs []string, questionTexts map[string]string, insights map[string]analysis.Insight, results map[string]questionResult) string {
	if a.gemini != nil {
		contexts := make([]QuestionContext, 0, len(questionIDs))
		for _, questionID := range questionIDs {
			insight := insights[questionID]
			contexts = append(contexts, QuestionContext{
				QuestionID:         questionID,
				QuestionText:       questionTexts[questionID],
				TotalResponses:     insight.TotalResponses,
				AvgSimilarity:      insight.AvgSimilarity,
				Difficulty:         insight.Difficulty,
				UnderstandingLevel: results[questionID].summary.UnderstandingLevel,
			})
		}
		narrative, err := a.gemini.GenerateClassSummary(ctx, title, contexts)
		if err == nil {
			return narrative
		}
		slog.Warn("Gemini class summary unavailable, using template feedback", "error", err)
	}

	weakByQuestion := make(map[string]analysis.WeakConcepts, len(questionIDs))
	for _, questionID := range questionIDs {
		weakByQuestion[questionID] = results[questionID].weak
	}

	suggestions := feedback.GenerateImprovementSuggestions(weakByQuestion, insights, questionIDs)
	if len(suggestions) == 0 {
		return "No class-wide issues detected. Students are responding with adequate depth and variety."
	}

	var sb strings.Builder
	sb.WriteString("Class-wide observations:")
	for _, s := range suggestions {
		fmt.Fprintf(&sb, "\n- [%s] %s", s.Priority, s.Message)
	}
	return sb.String()
}

// studentDraftBody joins a student's per-question feedback into one
// editable draft.
func studentDraftBody(student *processing.StudentRecord, insights map[string]analysis.Insight) string {
	perQuestion := feedback.GenerateStudentFeedback(student, insights)

	questionIDs := make([]string, 0, len(perQuestion))
	for questionID := range perQuestion {
		questionIDs = append(questionIDs, questionID)
	}
	sort.Strings(questionIDs)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Feedback for %s:", student.StudentName)
	for _, questionID := range questionIDs {
		fb := perQuestion[questionID]
		fmt.Fprintf(&sb, "\nQ%s (%s): %s", questionID, fb.PatternStatus, fb.Suggestion)
	}
	return sb.String()
}

func (a *AnalyzerService) progress(teacherID, assignmentID, stage string, percent int, message string) {
	a.publish(teacherID, ws.ProgressEvent{
		Type:         ws.EventAnalysisProgress,
		AssignmentID: assignmentID,
		Stage:        stage,
		Percent:      percent,
		Message:      message,
	})
}

func (a *AnalyzerService) publish(teacherID string, event ws.ProgressEvent) {
	if a.hub == nil {
		return
	}
	a.hub.Publish(teacherID, event)
}

func mustJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal analysis field", "error", err)
		return "null"
	}
	return string(data)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
