package models

import (
	"time"

	"gorm.io/gorm"
)

// AnalysisRun records one analysis of an assignment and its overall metrics
type AnalysisRun struct {
	ID                string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AssignmentID      string         `gorm:"type:uuid;not null;uniqueIndex" json:"assignment_id"`
	Status            string         `gorm:"not null;default:'running';check:status IN ('running', 'completed', 'failed')" json:"status"`
	TotalStudents     int            `json:"total_students"`
	TotalQuestions    int            `json:"total_questions"`
	OverallSimilarity float64        `gorm:"type:decimal(5,2)" json:"overall_similarity"`
	AvgInsightScore   float64        `gorm:"type:decimal(5,2)" json:"avg_insight_score"`
	Error             string         `gorm:"type:text" json:"error,omitempty"`
	StartedAt         time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt       *time.Time     `json:"completed_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Assignment Assignment        `gorm:"foreignKey:AssignmentID" json:"-"`
	Insights   []QuestionInsight `gorm:"foreignKey:AnalysisID" json:"insights,omitempty"`
	Drafts     []FeedbackDraft   `gorm:"foreignKey:AnalysisID" json:"drafts,omitempty"`
}

// QuestionInsight stores the per-question analysis output. Cluster and
// keyword data is kept as JSON text: the dashboard consumes it whole
// and nothing queries inside it.
type QuestionInsight struct {
	ID                 string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AnalysisID         string         `gorm:"type:uuid;not null;index" json:"analysis_id"`
	QuestionID         string         `gorm:"size:100;not null" json:"question_id"`
	QuestionText       string         `gorm:"type:text" json:"question_text"`
	TotalResponses     int            `json:"total_responses"`
	AvgSimilarity      float64        `gorm:"type:decimal(4,2)" json:"avg_similarity"`
	Difficulty         string         `gorm:"size:20" json:"difficulty"`
	InsightScore       float64        `gorm:"type:decimal(5,2)" json:"insight_score"`
	ConfidenceScore    float64        `gorm:"type:decimal(5,2)" json:"confidence_score"`
	UnderstandingLevel string         `gorm:"size:20" json:"understanding_level"`
	RiskLevel          string         `gorm:"size:20" json:"risk_level"`
	PatternType        string         `gorm:"type:text" json:"pattern_type"`
	SummaryText        string         `gorm:"type:text" json:"summary_text"`
	TeachingAction     string         `gorm:"type:text" json:"teaching_action"`
	CommonKeywords     string         `gorm:"type:text" json:"common_keywords"`
	FrequentAnswers    string         `gorm:"type:text" json:"frequent_answers"`
	Clusters           string         `gorm:"type:text" json:"clusters"`
	CommonMistakes     string         `gorm:"type:text" json:"common_mistakes"`
	ShortAnswers       int            `json:"short_answers"`
	LowVocabDiversity  bool           `json:"low_vocab_diversity"`
	ClusterCount       int            `json:"cluster_count"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Analysis AnalysisRun `gorm:"foreignKey:AnalysisID" json:"-"`
}
