package models

import (
	"time"

	"gorm.io/gorm"
)

// Assignment represents one uploaded class assignment file
type Assignment struct {
	ID            string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TeacherID     string         `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	SourceFile    string         `gorm:"size:255" json:"source_file"`
	Format        string         `gorm:"size:10;not null;check:format IN ('csv', 'json', 'xlsx')" json:"format"`
	Status        string         `gorm:"not null;default:'uploaded';check:status IN ('uploaded', 'analyzing', 'analyzed', 'failed')" json:"status"`
	ResponseCount int            `json:"response_count"`
	StudentCount  int            `json:"student_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Teacher   Teacher           `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Responses []StudentResponse `gorm:"foreignKey:AssignmentID" json:"responses,omitempty"`
	Analysis  *AnalysisRun      `gorm:"foreignKey:AssignmentID" json:"analysis,omitempty"`
}

// StudentResponse is one parsed row of an upload: a single student's
// answer to a single question
type StudentResponse struct {
	ID           string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AssignmentID string         `gorm:"type:uuid;not null;index" json:"assignment_id"`
	StudentID    string         `gorm:"size:100;not null;index" json:"student_id"`
	StudentName  string         `gorm:"size:255" json:"student_name"`
	QuestionID   string         `gorm:"size:100;not null;index" json:"question_id"`
	QuestionText string         `gorm:"type:text" json:"question_text"`
	Answer       string         `gorm:"type:text;not null" json:"answer"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Assignment Assignment `gorm:"foreignKey:AssignmentID" json:"-"`
}
