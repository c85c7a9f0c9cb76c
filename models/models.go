package models

// This file serves as the central export point for all database models
// Import this package to access all model types

// All models are automatically exported from their respective files:
// - Teacher, RefreshToken, PermanentToken from teacher.go
// - Assignment, StudentResponse from assignment.go
// - AnalysisRun, QuestionInsight from analysis.go
// - FeedbackDraft from feedback.go

// Database schema overview:
// 1. teachers - Managed by cookie-based authentication
// 2. assignments - One row per uploaded class assignment file
// 3. student_responses - The parsed rows of an upload (one answer per student per question)
// 4. analysis_runs - Records each analysis of an assignment and its overall metrics
// 5. question_insights - Per-question analysis output (similarity, clusters, scores, summary)
// 6. feedback_drafts - Generated feedback awaiting teacher review (edit/approve/reject)
