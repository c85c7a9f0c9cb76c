package models

import (
	"time"

	"gorm.io/gorm"
)

// Feedback draft statuses
const (
	FeedbackStatusDraft    = "draft"
	FeedbackStatusEdited   = "edited"
	FeedbackStatusApproved = "approved"
	FeedbackStatusRejected = "rejected"
)

// Feedback draft scopes
const (
	FeedbackScopeQuestion = "question"
	FeedbackScopeClass    = "class"
	FeedbackScopeStudent  = "student"
)

// FeedbackDraft is generated feedback awaiting teacher review.
//
// Lifecycle: drafts start as 'draft'; editing the body moves them to
// 'edited'; 'draft' and 'edited' may be approved or rejected;
// 'approved' is terminal; 'rejected' drafts may be edited back into
// review. CanTransitionTo enforces this.
type FeedbackDraft struct {
	ID         string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AnalysisID string         `gorm:"type:uuid;not null;index" json:"analysis_id"`
	Scope      string         `gorm:"size:20;not null;check:scope IN ('question', 'class', 'student')" json:"scope"`
	QuestionID string         `gorm:"size:100;index" json:"question_id,omitempty"`
	StudentID  string         `gorm:"size:100;index" json:"student_id,omitempty"`
	Body       string         `gorm:"type:text;not null" json:"body"`
	Status     string         `gorm:"not null;default:'draft';check:status IN ('draft', 'edited', 'approved', 'rejected')" json:"status"`
	ReviewedAt *time.Time     `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Analysis AnalysisRun `gorm:"foreignKey:AnalysisID" json:"-"`
}

// CanTransitionTo reports whether a status change is allowed by the
// review lifecycle.
func (f *FeedbackDraft) CanTransitionTo(status string) bool {
	switch f.Status {
	case FeedbackStatusDraft, FeedbackStatusEdited:
		return status == FeedbackStatusEdited || status == FeedbackStatusApproved || status == FeedbackStatusRejected
	case FeedbackStatusRejected:
		return status == FeedbackStatusEdited
	default: // approved is terminal
		return false
	}
}
