package services

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/edulens/insight/models"
	"github.com/edulens/insight/repository"
)

// FeedbackEndpoints handles the draft review workflow: list, edit,
// approve and reject.
type FeedbackEndpoints struct {
	repo          *repository.GORMRepository
	analyticsRepo *repository.AnalyticsRepository
	cache         *CacheService
}

type UpdateDraftRequest struct {
	Body string `json:"body"`
}

func NewFeedbackEndpoints(repo *repository.GORMRepository, analyticsRepo *repository.AnalyticsRepository, cache *CacheService) *FeedbackEndpoints {
	return &FeedbackEndpoints{
		repo:          repo,
		analyticsRepo: analyticsRepo,
		cache:         cache,
	}
}

func (e *FeedbackEndpoints) RegisterRoutes(r chi.Router) {
	r.Get("/assignments/{assignmentID}/feedback", e.ListHandler)
	r.Route("/feedback/{draftID}", func(r chi.Router) {
		r.Put("/", e.UpdateHandler)
		r.Post("/approve", e.ApproveHandler)
		r.Post("/reject", e.RejectHandler)
	})
}

// ListHandler returns an assignment's feedback drafts, optionally
// filtered by scope and status query parameters.
func (e *FeedbackEndpoints) ListHandler(w http.ResponseWriter, r *http.Request) {
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

	run, err := e.analyticsRepo.GetAnalysisRun(r.Context(), assignmentID)
	if err != nil {
		http.Error(w, "Failed to get analysis", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "No analysis for this assignment", http.StatusNotFound)
		return
	}

	scope := r.URL.Query().Get("scope")
	status := r.URL.Query().Get("status")
	if scope != "" && scope != models.FeedbackScopeQuestion && scope != models.FeedbackScopeClass && scope != models.FeedbackScopeStudent {
		http.Error(w, "Invalid scope filter", http.StatusBadRequest)
		return
	}
	if status != "" && status != models.FeedbackStatusDraft && status != models.FeedbackStatusEdited &&
		status != models.FeedbackStatusApproved && status != models.FeedbackStatusRejected {
		http.Error(w, "Invalid status filter", http.StatusBadRequest)
		return
	}

	drafts, err := e.analyticsRepo.GetFeedbackDrafts(r.Context(), run.ID, scope, status)
	if err != nil {
		http.Error(w, "Failed to get feedback drafts", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"drafts": drafts,
		"count":  len(drafts),
	})
}

// UpdateHandler edits a draft's body. Editing moves draft and rejected
// entries into the edited state; approved drafts cannot be changed.
func (e *FeedbackEndpoints) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	draft, ok := e.ownedDraft(w, r)
	if !ok {
		return
	}

	var req UpdateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		http.Error(w, "Feedback body cannot be empty", http.StatusBadRequest)
		return
	}

	if !draft.CanTransitionTo(models.FeedbackStatusEdited) {
		http.Error(w, "Draft cannot be edited in its current state", http.StatusConflict)
		return
	}

	draft.Body = req.Body
	draft.Status = models.FeedbackStatusEdited
	e.saveDraft(w, r, draft)
}

// ApproveHandler approves a draft, making it final.
func (e *FeedbackEndpoints) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	e.review(w, r, models.FeedbackStatusApproved)
}

// RejectHandler rejects a draft. Rejected drafts can be edited back
// into review.
func (e *FeedbackEndpoints) RejectHandler(w http.ResponseWriter, r *http.Request) {
	e.review(w, r, models.FeedbackStatusRejected)
}

func (e *FeedbackEndpoints) review(w http.ResponseWriter, r *http.Request, status string) {
	draft, ok := e.ownedDraft(w, r)
	if !ok {
		return
	}

	if !draft.CanTransitionTo(status) {
		http.Error(w, "Invalid status transition from "+draft.Status, http.StatusConflict)
		return
	}

	now := time.Now()
	draft.Status = status
	draft.ReviewedAt = &now
	e.saveDraft(w, r, draft)
}

// ownedDraft loads the draft and verifies the requesting teacher owns
// the assignment it belongs to. Writes the error response on failure.
func (e *FeedbackEndpoints) ownedDraft(w http.ResponseWriter, r *http.Request) (*models.FeedbackDraft, bool) {
	teacher, ok := TeacherFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return nil, false
	}

	draftID := chi.URLParam(r, "draftID")
	owned, err := e.analyticsRepo.DraftBelongsToTeacher(r.Context(), draftID, teacher.ID)
	if err != nil {
		http.Error(w, "Failed to check draft ownership", http.StatusInternalServerError)
		return nil, false
	}
	if !owned {
		http.Error(w, "Feedback draft not found", http.StatusNotFound)
		return nil, false
	}

	draft, err := e.analyticsRepo.GetFeedbackDraft(r.Context(), draftID)
	if err != nil {
		http.Error(w, "Failed to get feedback draft", http.StatusInternalServerError)
		return nil, false
	}
	if draft == nil {
		http.Error(w, "Feedback draft not found", http.StatusNotFound)
		return nil, false
	}

	return draft, true
}

func (e *FeedbackEndpoints) saveDraft(w http.ResponseWriter, r *http.Request, draft *models.FeedbackDraft) {
	if err := e.analyticsRepo.UpdateFeedbackDraft(r.Context(), draft); err != nil {
		http.Error(w, "Failed to update feedback draft", http.StatusInternalServerError)
		return
	}

	// Drop the cached analysis payload so draft statuses stay fresh
	if assignmentID, err := e.analyticsRepo.AssignmentIDForDraft(r.Context(), draft.ID); err == nil && assignmentID != "" {
		e.cache.InvalidateAnalysis(r.Context(), assignmentID)
	}

	slog.Info("Feedback draft reviewed", "draft_id", draft.ID, "status", draft.Status)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"draft": draft})
}
