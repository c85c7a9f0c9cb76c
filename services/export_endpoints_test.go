package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edulens/insight/models"
)

func TestQuestionReportsReviewedFeedback(t *testing.T) {
	insights := []models.QuestionInsight{
		{QuestionID: "Q1", TeachingAction: "Re-teach the concept with examples and guided practice."},
		{QuestionID: "Q2", TeachingAction: "Minor clarification and reinforcement recommended."},
		{QuestionID: "Q3", TeachingAction: "Focus on encouraging detailed explanations and deeper thinking."},
		{QuestionID: "Q4", TeachingAction: "Minor clarification and reinforcement recommended."},
	}
	drafts := []models.FeedbackDraft{
		{QuestionID: "Q1", Scope: models.FeedbackScopeQuestion, Status: models.FeedbackStatusApproved, Body: "Revisit photosynthesis with a lab demo."},
		{QuestionID: "Q2", Scope: models.FeedbackScopeQuestion, Status: models.FeedbackStatusRejected, Body: "Discarded suggestion."},
		{QuestionID: "Q3", Scope: models.FeedbackScopeQuestion, Status: models.FeedbackStatusEdited, Body: "Assign a short written reflection."},
		{Scope: models.FeedbackScopeClass, Status: models.FeedbackStatusApproved, Body: "Class-wide observations."},
	}

	questions := questionReports(insights, drafts)
	assert.Len(t, questions, 4)

	// Approved and edited bodies replace the computed teaching action
	assert.Equal(t, "Revisit photosynthesis with a lab demo.", questions[0].TeachingAction)
	assert.Equal(t, models.FeedbackStatusApproved, questions[0].FeedbackStatus)
	assert.Equal(t, "Assign a short written reflection.", questions[2].TeachingAction)
	assert.Equal(t, models.FeedbackStatusEdited, questions[2].FeedbackStatus)

	// Rejected drafts are excluded: no status annotation, no body
	assert.Equal(t, "", questions[1].FeedbackStatus)
	assert.Equal(t, "Minor clarification and reinforcement recommended.", questions[1].TeachingAction)
	assert.NotContains(t, questions[1].TeachingAction, "Discarded")

	// Questions without a question-scope draft keep the computed action
	assert.Equal(t, "", questions[3].FeedbackStatus)
	assert.Equal(t, "Minor clarification and reinforcement recommended.", questions[3].TeachingAction)
}

func TestQuestionReportsUnreviewedDraftAnnotated(t *testing.T) {
	insights := []models.QuestionInsight{
		{QuestionID: "Q1", TeachingAction: "Minor clarification and reinforcement recommended."},
	}
	drafts := []models.FeedbackDraft{
		{QuestionID: "Q1", Scope: models.FeedbackScopeQuestion, Status: models.FeedbackStatusDraft, Body: "Generated suggestion."},
	}

	questions := questionReports(insights, drafts)

	assert.Equal(t, models.FeedbackStatusDraft, questions[0].FeedbackStatus)
	assert.Equal(t, "Minor clarification and reinforcement recommended.", questions[0].TeachingAction)
}
