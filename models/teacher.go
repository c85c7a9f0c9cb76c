package models

import (
	"time"

	"gorm.io/gorm"
)

type Teacher struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"size:255" json:"-"` // Hashed password (excluded from JSON)
	FullName  string         `gorm:"size:255" json:"full_name,omitempty"`
	StaffID   string         `gorm:"size:100;uniqueIndex" json:"staff_id,omitempty"`
	Role      string         `gorm:"default:'teacher'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Assignments   []Assignment   `gorm:"foreignKey:TeacherID" json:"assignments,omitempty"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:TeacherID" json:"refresh_tokens,omitempty"`
}

type RefreshToken struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TeacherID string         `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Token     string         `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time      `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Teacher Teacher `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}

type PermanentToken struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TeacherID string         `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Token     string         `gorm:"uniqueIndex;not null" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Teacher Teacher `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}
