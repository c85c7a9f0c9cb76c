package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/edulens/insight/models"
	"gorm.io/gorm"
)

// AnalyticsRepository persists analysis runs, per-question insights
// and feedback drafts.
type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// CreateAnalysisRun starts a run record. Any previous run for the
// assignment is removed first so re-analysis replaces its results.
func (r *AnalyticsRepository) CreateAnalysisRun(ctx context.Context, run *models.AnalysisRun) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var previous []models.AnalysisRun
		if err := tx.Where("assignment_id = ?", run.AssignmentID).Find(&previous).Error; err != nil {
			return err
		}
		for _, old := range previous {
			if err := tx.Where("analysis_id = ?", old.ID).Delete(&models.QuestionInsight{}).Error; err != nil {
				return err
			}
			if err := tx.Where("analysis_id = ?", old.ID).Delete(&models.FeedbackDraft{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("id = ?", old.ID).Delete(&models.AnalysisRun{}).Error; err != nil {
				return err
			}
		}
		return tx.Create(run).Error
	})
	if err != nil {
		slog.Error("Failed to create analysis run", "error", err, "assignment_id", run.AssignmentID)
		return fmt.Errorf("failed to create analysis run: %w", err)
	}
	slog.Info("Analysis run created", "analysis_id", run.ID, "assignment_id", run.AssignmentID)
	return nil
}

// CompleteAnalysisRun stores the run's results in one transaction.
func (r *AnalyticsRepository) CompleteAnalysisRun(ctx context.Context, run *models.AnalysisRun, insights []models.QuestionInsight, drafts []models.FeedbackDraft) error {
	now := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		run.Status = "completed"
		run.CompletedAt = &now
		if err := tx.Save(run).Error; err != nil {
			return err
		}
		for i := range insights {
			insights[i].AnalysisID = run.ID
		}
		if len(insights) > 0 {
			if err := tx.CreateInBatches(insights, 100).Error; err != nil {
				return err
			}
		}
		for i := range drafts {
			drafts[i].AnalysisID = run.ID
		}
		if len(drafts) > 0 {
			if err := tx.CreateInBatches(drafts, 100).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		slog.Error("Failed to complete analysis run", "error", err, "analysis_id", run.ID)
		return fmt.Errorf("failed to complete analysis run: %w", err)
	}
	slog.Info("Analysis run completed", "analysis_id", run.ID, "insights", len(insights), "drafts", len(drafts))
	return nil
}

// FailAnalysisRun marks a run failed with its error message.
func (r *AnalyticsRepository) FailAnalysisRun(ctx context.Context, runID string, runErr error) error {
	now := time.Now()
	if err := r.db.WithContext(ctx).
		Model(&models.AnalysisRun{}).
		Where("id = ?", runID).
		Updates(map[string]any{
			"status":       "failed",
			"error":        runErr.Error(),
			"completed_at": now,
		}).Error; err != nil {
		slog.Error("Failed to mark analysis run failed", "error", err, "analysis_id", runID)
		return err
	}
	return nil
}

// GetAnalysisRun returns the latest run for an assignment with its
// insights and drafts preloaded.
func (r *AnalyticsRepository) GetAnalysisRun(ctx context.Context, assignmentID string) (*models.AnalysisRun, error) {
	var run models.AnalysisRun
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Preload("Insights").
		Preload("Drafts").
		First(&run).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get analysis run", "error", err, "assignment_id", assignmentID)
		return nil, err
	}
	return &run, nil
}

// Feedback draft operations

func (r *AnalyticsRepository) GetFeedbackDraft(ctx context.Context, draftID string) (*models.FeedbackDraft, error) {
	var draft models.FeedbackDraft
	if err := r.db.WithContext(ctx).Where("id = ?", draftID).First(&draft).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get feedback draft", "error", err, "draft_id", draftID)
		return nil, err
	}
	return &draft, nil
}

func (r *AnalyticsRepository) GetFeedbackDrafts(ctx context.Context, analysisID, scope, status string) ([]models.FeedbackDraft, error) {
	query := r.db.WithContext(ctx).Where("analysis_id = ?", analysisID)
	if scope != "" {
		query = query.Where("scope = ?", scope)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var drafts []models.FeedbackDraft
	if err := query.Order("created_at").Find(&drafts).Error; err != nil {
		slog.Error("Failed to get feedback drafts", "error", err, "analysis_id", analysisID)
		return nil, err
	}
	return drafts, nil
}

func (r *AnalyticsRepository) UpdateFeedbackDraft(ctx context.Context, draft *models.FeedbackDraft) error {
	if err := r.db.WithContext(ctx).Save(draft).Error; err != nil {
		slog.Error("Failed to update feedback draft", "error", err, "draft_id", draft.ID)
		return err
	}
	slog.Info("Feedback draft updated", "draft_id", draft.ID, "status", draft.Status)
	return nil
}

// AssignmentIDForDraft resolves the assignment a draft belongs to,
// used for cache invalidation after review actions.
func (r *AnalyticsRepository) AssignmentIDForDraft(ctx context.Context, draftID string) (string, error) {
	var assignmentID string
	err := r.db.WithContext(ctx).
		Model(&models.FeedbackDraft{}).
		Joins("JOIN analysis_runs ON analysis_runs.id = feedback_drafts.analysis_id").
		Where("feedback_drafts.id = ?", draftID).
		Pluck("analysis_runs.assignment_id", &assignmentID).Error
	if err != nil {
		slog.Error("Failed to resolve draft assignment", "error", err, "draft_id", draftID)
		return "", err
	}
	return assignmentID, nil
}

// DraftBelongsToTeacher verifies ownership through the draft's
// analysis run and assignment.
func (r *AnalyticsRepository) DraftBelongsToTeacher(ctx context.Context, draftID, teacherID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FeedbackDraft{}).
		Joins("JOIN analysis_runs ON analysis_runs.id = feedback_drafts.analysis_id").
		Joins("JOIN assignments ON assignments.id = analysis_runs.assignment_id").
		Where("feedback_drafts.id = ? AND assignments.teacher_id = ?", draftID, teacherID).
		Count(&count).Error
	if err != nil {
		slog.Error("Failed to check draft ownership", "error", err, "draft_id", draftID)
		return false, err
	}
	return count > 0, nil
}
