package models

import "testing"

func TestFeedbackDraftCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"draft can be edited", FeedbackStatusDraft, FeedbackStatusEdited, true},
		{"draft can be approved", FeedbackStatusDraft, FeedbackStatusApproved, true},
		{"draft can be rejected", FeedbackStatusDraft, FeedbackStatusRejected, true},
		{"edited can be re-edited", FeedbackStatusEdited, FeedbackStatusEdited, true},
		{"edited can be approved", FeedbackStatusEdited, FeedbackStatusApproved, true},
		{"edited can be rejected", FeedbackStatusEdited, FeedbackStatusRejected, true},
		{"rejected can be edited back into review", FeedbackStatusRejected, FeedbackStatusEdited, true},
		{"rejected cannot be approved directly", FeedbackStatusRejected, FeedbackStatusApproved, false},
		{"rejected cannot be re-rejected", FeedbackStatusRejected, FeedbackStatusRejected, false},
		{"approved is terminal - no edit", FeedbackStatusApproved, FeedbackStatusEdited, false},
		{"approved is terminal - no reject", FeedbackStatusApproved, FeedbackStatusRejected, false},
		{"approved is terminal - no re-approve", FeedbackStatusApproved, FeedbackStatusApproved, false},
		{"draft cannot return to draft", FeedbackStatusDraft, FeedbackStatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := &FeedbackDraft{Status: tt.from}
			if got := draft.CanTransitionTo(tt.to); got != tt.allowed {
				t.Errorf("CanTransitionTo(%q) from %q = %v, expected %v", tt.to, tt.from, got, tt.allowed)
			}
		})
	}
}
