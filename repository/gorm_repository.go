package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/edulens/insight/models"
	"gorm.io/gorm"
)

type GORMRepository struct {
	db *gorm.DB
}

func NewGORMRepository(db *gorm.DB) *GORMRepository {
	return &GORMRepository{db: db}
}

// DB exposes the underlying handle for health checks.
func (r *GORMRepository) DB() *gorm.DB {
	return r.db
}

// AutoMigrate runs database migrations
func (r *GORMRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&models.Teacher{},
		&models.RefreshToken{},
		&models.PermanentToken{},
		&models.Assignment{},
		&models.StudentResponse{},
		&models.AnalysisRun{},
		&models.QuestionInsight{},
		&models.FeedbackDraft{},
	)
}

// Teacher operations
func (r *GORMRepository) CreateTeacher(ctx context.Context, teacher *models.Teacher) error {
	if err := r.db.WithContext(ctx).Create(teacher).Error; err != nil {
		slog.Error("Failed to create teacher", "error", err)
		return err
	}
	slog.Info("Teacher created", "teacher_id", teacher.ID, "email", teacher.Email)
	return nil
}

func (r *GORMRepository) GetTeacherByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&teacher).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get teacher by email", "error", err, "email", email)
		return nil, err
	}
	return &teacher, nil
}

func (r *GORMRepository) GetTeacherByStaffID(ctx context.Context, staffID string) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).Where("staff_id = ?", staffID).First(&teacher).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get teacher by staff ID", "error", err, "staff_id", staffID)
		return nil, err
	}
	return &teacher, nil
}

func (r *GORMRepository) GetTeacherByID(ctx context.Context, id string) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&teacher).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get teacher by ID", "error", err, "teacher_id", id)
		return nil, err
	}
	return &teacher, nil
}

// Token operations
func (r *GORMRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		slog.Error("Failed to create refresh token", "error", err)
		return err
	}
	return nil
}

func (r *GORMRepository) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	if err := r.db.WithContext(ctx).Where("token = ? AND expires_at > ?", token, time.Now()).First(&refreshToken).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get refresh token", "error", err)
		return nil, err
	}
	return &refreshToken, nil
}

func (r *GORMRepository) CreatePermanentToken(ctx context.Context, token *models.PermanentToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		slog.Error("Failed to create permanent token", "error", err)
		return err
	}
	return nil
}

func (r *GORMRepository) GetPermanentToken(ctx context.Context, token string) (*models.PermanentToken, error) {
	var permanentToken models.PermanentToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&permanentToken).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get permanent token", "error", err)
		return nil, err
	}
	return &permanentToken, nil
}

func (r *GORMRepository) DeleteAllTeacherTokens(ctx context.Context, teacherID string) error {
	if err := r.db.WithContext(ctx).Where("teacher_id = ?", teacherID).Delete(&models.RefreshToken{}).Error; err != nil {
		slog.Error("Failed to delete teacher refresh tokens", "error", err, "teacher_id", teacherID)
		return err
	}
	if err := r.db.WithContext(ctx).Where("teacher_id = ?", teacherID).Delete(&models.PermanentToken{}).Error; err != nil {
		slog.Error("Failed to delete teacher permanent tokens", "error", err, "teacher_id", teacherID)
		return err
	}
	return nil
}

// Assignment operations
func (r *GORMRepository) CreateAssignment(ctx context.Context, assignment *models.Assignment, responses []models.StudentResponse) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(assignment).Error; err != nil {
			return err
		}
		for i := range responses {
			responses[i].AssignmentID = assignment.ID
		}
		return tx.CreateInBatches(responses, 500).Error
	})
	if err != nil {
		slog.Error("Failed to create assignment", "error", err)
		return err
	}
	slog.Info("Assignment created", "assignment_id", assignment.ID, "responses", len(responses))
	return nil
}

func (r *GORMRepository) GetAssignments(ctx context.Context, teacherID string) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&assignments).Error
	if err != nil {
		slog.Error("Failed to get assignments", "error", err, "teacher_id", teacherID)
		return nil, err
	}
	return assignments, nil
}

func (r *GORMRepository) GetAssignment(ctx context.Context, assignmentID, teacherID string) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.WithContext(ctx).
		Where("id = ? AND teacher_id = ?", assignmentID, teacherID).
		First(&assignment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		slog.Error("Failed to get assignment", "error", err, "assignment_id", assignmentID)
		return nil, err
	}
	return &assignment, nil
}

func (r *GORMRepository) GetAssignmentResponses(ctx context.Context, assignmentID string) ([]models.StudentResponse, error) {
	var responses []models.StudentResponse
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("created_at").
		Find(&responses).Error
	if err != nil {
		slog.Error("Failed to get assignment responses", "error", err, "assignment_id", assignmentID)
		return nil, err
	}
	return responses, nil
}

func (r *GORMRepository) UpdateAssignmentStatus(ctx context.Context, assignmentID, status string) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("id = ?", assignmentID).
		Update("status", status).Error; err != nil {
		slog.Error("Failed to update assignment status", "error", err, "assignment_id", assignmentID, "status", status)
		return err
	}
	return nil
}

func (r *GORMRepository) DeleteAssignment(ctx context.Context, assignmentID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", assignmentID).Delete(&models.StudentResponse{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", assignmentID).Delete(&models.Assignment{}).Error
	})
	if err != nil {
		slog.Error("Failed to delete assignment", "error", err, "assignment_id", assignmentID)
		return err
	}
	slog.Info("Assignment deleted", "assignment_id", assignmentID)
	return nil
}
