package services

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/edulens/insight/models"
	"github.com/edulens/insight/processing"
	"github.com/edulens/insight/repository"
)

// AssignmentEndpoints handles assignment upload and lifecycle routes.
type AssignmentEndpoints struct {
	repo           *repository.GORMRepository
	analyzer       *AnalyzerService
	uploadMaxBytes int64
}

func NewAssignmentEndpoints(repo *repository.GORMRepository, analyzer *AnalyzerService, uploadMaxBytes int64) *AssignmentEndpoints {
	return &AssignmentEndpoints{
		repo:           repo,
		analyzer:       analyzer,
		uploadMaxBytes: uploadMaxBytes,
	}
}

func (e *AssignmentEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/assignments", func(r chi.Router) {
		r.Post("/", e.UploadHandler)
		r.Get("/", e.ListHandler)
		r.Get("/{assignmentID}", e.GetHandler)
		r.Delete("/{assignmentID}", e.DeleteHandler)
		r.Post("/{assignmentID}/analyze", e.AnalyzeHandler)
	})
}

// UploadHandler accepts a multipart CSV, JSON or Excel upload, parses
// and validates it, stores the responses and kicks off analysis.
func (e *AssignmentEndpoints) UploadHandler(w http.ResponseWriter, r *http.Request) {
	teacher, ok := TeacherFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, e.uploadMaxBytes)
	if err := r.ParseMultipartForm(e.uploadMaxBytes); err != nil {
		http.Error(w, "Upload too large or malformed", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := processing.ParseFile(header.Filename, file)
	if err != nil {
		slog.Warn("Upload rejected", "teacher_id", teacher.ID, "filename", header.Filename, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}

	students := processing.Students(rows)
	assignment := &models.Assignment{
		TeacherID:     teacher.ID,
		Title:         title,
		SourceFile:    header.Filename,
		Format:        processing.FormatFromFilename(header.Filename),
		Status:        "uploaded",
		ResponseCount: len(rows),
		StudentCount:  len(students),
	}

	responses := make([]models.StudentResponse, len(rows))
	for i, row := range rows {
		responses[i] = models.StudentResponse{
			StudentID:    row.StudentID,
			StudentName:  row.StudentName,
			QuestionID:   row.QuestionID,
			QuestionText: row.QuestionText,
			Answer:       row.Answer,
		}
	}

	if err := e.repo.CreateAssignment(r.Context(), assignment, responses); err != nil {
		slog.Error("Failed to create assignment", "teacher_id", teacher.ID, "error", err)
		http.Error(w, "Failed to store assignment", http.StatusInternalServerError)
		return
	}

	run, err := e.analyzer.StartAnalysis(r.Context(), assignment)
	if err != nil {
		slog.Error("Failed to start analysis", "assignment_id", assignment.ID, "error", err)
		http.Error(w, "Failed to start analysis", http.StatusInternalServerError)
		return
	}

	slog.Info("Assignment uploaded",
		"assignment_id", assignment.ID,
		"teacher_id", teacher.ID,
		"responses", len(rows),
		"students", len(students))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"assignment":  assignment,
		"analysis_id": run.ID,
		"message":     "Upload accepted, analysis started",
	})
}

func (e *AssignmentEndpoints) ListHandler(w http.ResponseWriter, r *http.Request) {
	teacher, ok := TeacherFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	assignments, err := e.repo.GetAssignments(r.Context(), teacher.ID)
	if err != nil {
		slog.Error("Failed to list assignments", "teacher_id", teacher.ID, "error", err)
		http.Error(w, "Failed to list assignments", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"assignments": assignments,
		"count":       len(assignments),
	})
}

func (e *AssignmentEndpoints) GetHandler(w http.ResponseWriter, r *http.Request) {
	teacher, ok := TeacherFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	assignment, err := e.repo.GetAssignment(r.Context(), chi.URLParam(r, "assignmentID"), teacher.ID)
	if err != nil {
		http.Error(w, "Failed to get assignment", http.StatusInternalServerError)
		return
	}
	if assignment == nil {
		http.Error(w, "Assignment not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"assignment": assignment})
}

func (e *AssignmentEndpoints) DeleteHandler(w http.ResponseWriter, r *http.Request) {
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

	if err := e.repo.DeleteAssignment(r.Context(), assignmentID); err != nil {
		slog.Error("Failed to delete assignment", "assignment_id", assignmentID, "error", err)
		http.Error(w, "Failed to delete assignment", http.StatusInternalServerError)
		return
	}

	e.analyzer.cache.InvalidateAnalysis(r.Context(), assignmentID)

	slog.Info("Assignment deleted", "assignment_id", assignmentID, "teacher_id", teacher.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"message": "Assignment deleted"})
}

// AnalyzeHandler re-runs analysis for an assignment, replacing any
// previous run and its drafts.
func (e *AssignmentEndpoints) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	teacher, ok := TeacherFromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	assignment, err := e.repo.GetAssignment(r.Context(), chi.URLParam(r, "assignmentID"), teacher.ID)
	if err != nil {
		http.Error(w, "Failed to get assignment", http.StatusInternalServerError)
		return
	}
	if assignment == nil {
		http.Error(w, "Assignment not found", http.StatusNotFound)
		return
	}
	if assignment.Status == "analyzing" {
		http.Error(w, "Analysis already in progress", http.StatusConflict)
		return
	}

	run, err := e.analyzer.StartAnalysis(r.Context(), assignment)
	if err != nil {
		slog.Error("Failed to start analysis", "assignment_id", assignment.ID, "error", err)
		http.Error(w, "Failed to start analysis", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"analysis_id": run.ID,
		"message":     "Analysis started",
	})
}
