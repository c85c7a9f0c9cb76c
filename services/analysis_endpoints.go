package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edulens/insight/analysis"
	"github.com/edulens/insight/feedback"
	"github.com/edulens/insight/models"
	"github.com/edulens/insight/processing"
	"github.com/edulens/insight/repository"
)

// AnalysisEndpoints serves analysis results and their transparency
// breakdowns.
type AnalysisEndpoints struct {
	repo          *repository.GORMRepository
	analyticsRepo *repository.AnalyticsRepository
	cache         *CacheService
}

func NewAnalysisEndpoints(repo *repository.GORMRepository, analyticsRepo *repository.AnalyticsRepository, cache *CacheService) *AnalysisEndpoints {
	return &AnalysisEndpoints{
		repo:          repo,
		analyticsRepo: analyticsRepo,
		cache:         cache,
	}
}

func (e *AnalysisEndpoints) RegisterRoutes(r chi.Router) {
	r.Get("/assignments/{assignmentID}/analysis", e.GetAnalysisHandler)
	r.Get("/assignments/{assignmentID}/analysis/transparency/{questionID}", e.TransparencyHandler)
}

// QuestionView is one question's analysis with the stored JSON columns
// decoded for the dashboard.
type QuestionView struct {
	QuestionID         string               `json:"question_id"`
	QuestionText       string               `json:"question_text"`
	TotalResponses     int                  `json:"total_responses"`
	AvgSimilarity      float64              `json:"avg_similarity"`
	Difficulty         string               `json:"difficulty"`
	InsightScore       float64              `json:"insight_score"`
	ConfidenceScore    float64              `json:"confidence_score"`
	UnderstandingLevel string               `json:"understanding_level"`
	RiskLevel          string               `json:"risk_level"`
	PatternType        string               `json:"pattern_type"`
	SummaryText        string               `json:"summary_text"`
	TeachingAction     string               `json:"teaching_action"`
	CommonKeywords     []analysis.WordCount `json:"common_keywords"`
	FrequentAnswers    []string             `json:"frequent_answers"`
	Clusters           [][]string           `json:"clusters"`
	CommonMistakes     []analysis.Mistake   `json:"common_mistakes"`
	ShortAnswers       int                  `json:"short_answers"`
	LowVocabDiversity  bool                 `json:"low_vocab_diversity"`
	ClusterCount       int                  `json:"cluster_count"`
}

// AnalysisPayload is the full dashboard payload for one assignment.
type AnalysisPayload struct {
	Assignment             *models.Assignment              `json:"assignment"`
	Analysis               *models.AnalysisRun             `json:"analysis"`
	Questions              []QuestionView                  `json:"questions"`
	Students               analysis.Classification         `json:"students"`
	ConceptualErrors       []analysis.ConceptualError      `json:"conceptual_errors"`
	Suggestions            []feedback.Suggestion           `json:"suggestions"`
	SimilarityDistribution analysis.SimilarityDistribution `json:"similarity_distribution"`
}

func (e *AnalysisEndpoints) GetAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	teacher, ok := TeacherFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	assignmentID := chi.URLParam(r, "assignmentID")
	assignment, err := e.repo.GetAssignment(r.Context(), assignmentID, teacher.ID)
	if err != nil {
		http.Error(w, "Failed to get assignment", http.StatusInternalServerError)
		return
	}
	if assignment == nil {
		http.Error(w, "Assignment not found", http.StatusNotFound)
		return
	}

	var cached AnalysisPayload
	if hit, err := e.cache.GetAnalysis(r.Context(), assignmentID, &cached); err == nil && hit {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "hit")
		json.NewEncoder(w).Encode(cached)
		return
	}

	payload, status, err := e.buildPayload(r, assignment)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	if err := e.cache.SetAnalysis(r.Context(), assignmentID, payload); err != nil {
		slog.Warn("Failed to cache analysis payload", "assignment_id", assignmentID, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "miss")
	json.NewEncoder(w).Encode(payload)
}

func (e *AnalysisEndpoints) buildPayload(r *http.Request, assignment *models.Assignment) (*AnalysisPayload, int, error) {
	run, err := e.analyticsRepo.GetAnalysisRun(r.Context(), assignment.ID)
	if err != nil {
		return nil, http.StatusInternalServerError, errors.New("Failed to get analysis")
	}
	if run == nil || run.Status != "completed" {
		return nil, http.StatusNotFound, errors.New("No completed analysis for this assignment")
	}

	questions := make([]QuestionView, 0, len(run.Insights))
	insightsByQuestion := make(map[string]analysis.Insight, len(run.Insights))
	weakByQuestion := make(map[string]analysis.WeakConcepts, len(run.Insights))
	questionOrder := make([]string, 0, len(run.Insights))
	similarities := make([]float64, 0, len(run.Insights))

	for _, qi := range run.Insights {
		similarities = append(similarities, qi.AvgSimilarity)
		view := questionViewFromModel(qi)
		questions = append(questions, view)
		questionOrder = append(questionOrder, qi.QuestionID)
		insightsByQuestion[qi.QuestionID] = analysis.Insight{
			TotalResponses:  qi.TotalResponses,
			CommonWords:     view.CommonKeywords,
			AvgSimilarity:   qi.AvgSimilarity,
			FrequentAnswers: view.FrequentAnswers,
			Difficulty:      qi.Difficulty,
			CommonMistakes:  view.CommonMistakes,
		}
		weakByQuestion[qi.QuestionID] = analysis.WeakConcepts{
			ShortAnswers:      qi.ShortAnswers,
			LowVocabDiversity: qi.LowVocabDiversity,
		}
	}

	responses, err := e.repo.GetAssignmentResponses(r.Context(), assignment.ID)
	if err != nil {
		return nil, http.StatusInternalServerError, errors.New("Failed to get responses")
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
	grouped := processing.GroupByQuestion(rows)

	return &AnalysisPayload{
		Assignment:             assignment,
		Analysis:               run,
		Questions:              questions,
		Students:               analysis.ClassifyStudents(grouped, insightsByQuestion),
		ConceptualErrors:       analysis.DetectConceptualErrors(grouped),
		Suggestions:            feedback.GenerateImprovementSuggestions(weakByQuestion, insightsByQuestion, questionOrder),
		SimilarityDistribution: analysis.DistributeSimilarity(similarities),
	}, http.StatusOK, nil
}

// TransparencyHandler explains how one question's metrics were derived.
func (e *AnalysisEndpoints) TransparencyHandler(w http.ResponseWriter, r *http.Request) {
	teacher, ok := TeacherFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	assignmentID := chi.URLParam(r, "assignmentID")
	questionID := chi.URLParam(r, "questionID")

	assignment, err := e.repo.GetAssignment(r.Context(), assignmentID, teacher.ID)
	if err != nil {
		http.Error(w, "Failed to get assignment", http.StatusInternalServerError)
		return
	}
	if assignment == nil {
		http.Error(w, "Assignment not found", http.StatusNotFound)
		return
	}

	run, err := e.analyticsRepo.GetAnalysisRun(r.Context(), assignmentID)
	if err != nil {
		http.Error(w, "Failed to get analysis", http.StatusInternalServerError)
		return
	}
	if run == nil || run.Status != "completed" {
		http.Error(w, "No completed analysis for this assignment", http.StatusNotFound)
		return
	}

	for _, qi := range run.Insights {
		if qi.QuestionID != questionID {
			continue
		}

		view := questionViewFromModel(qi)
		insight := analysis.Insight{
			TotalResponses:  qi.TotalResponses,
			CommonWords:     view.CommonKeywords,
			AvgSimilarity:   qi.AvgSimilarity,
			FrequentAnswers: view.FrequentAnswers,
			Difficulty:      qi.Difficulty,
			CommonMistakes:  view.CommonMistakes,
		}
		weak := analysis.WeakConcepts{
			ShortAnswers:      qi.ShortAnswers,
			LowVocabDiversity: qi.LowVocabDiversity,
		}
		scores := analysis.Scores{
			InsightScore:    qi.InsightScore,
			ConfidenceScore: qi.ConfidenceScore,
		}

		report := feedback.GenerateTransparencyReport(questionID, insight, view.Clusters, weak, scores)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
		return
	}

	http.Error(w, "Question not found in analysis", http.StatusNotFound)
}

// questionViewFromModel decodes the JSON text columns of a stored
// question insight.
func questionViewFromModel(qi models.QuestionInsight) QuestionView {
	view := QuestionView{
		QuestionID:         qi.QuestionID,
		QuestionText:       qi.QuestionText,
		TotalResponses:     qi.TotalResponses,
		AvgSimilarity:      qi.AvgSimilarity,
		Difficulty:         qi.Difficulty,
		InsightScore:       qi.InsightScore,
		ConfidenceScore:    qi.ConfidenceScore,
		UnderstandingLevel: qi.UnderstandingLevel,
		RiskLevel:          qi.RiskLevel,
		PatternType:        qi.PatternType,
		SummaryText:        qi.SummaryText,
		TeachingAction:     qi.TeachingAction,
		ShortAnswers:       qi.ShortAnswers,
		LowVocabDiversity:  qi.LowVocabDiversity,
		ClusterCount:       qi.ClusterCount,
	}

	decodeJSONColumn(qi.CommonKeywords, &view.CommonKeywords, qi.QuestionID, "common_keywords")
	decodeJSONColumn(qi.FrequentAnswers, &view.FrequentAnswers, qi.QuestionID, "frequent_answers")
	decodeJSONColumn(qi.Clusters, &view.Clusters, qi.QuestionID, "clusters")
	decodeJSONColumn(qi.CommonMistakes, &view.CommonMistakes, qi.QuestionID, "common_mistakes")

	return view
}

func decodeJSONColumn(data string, dest interface{}, questionID, column string) {
	if data == "" {
		return
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		slog.Warn("Failed to decode stored insight column", "question_id", questionID, "column", column, "error", err)
	}
}
