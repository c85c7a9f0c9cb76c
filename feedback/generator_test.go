package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulens/insight/analysis"
	"github.com/edulens/insight/processing"
)

func TestGenerateStudentFeedback(t *testing.T) {
	student := &processing.StudentRecord{
		StudentID:   "S1",
		StudentName: "Ada",
		Answers: map[string]string{
			"Q1": "gravity pulls objects down",
			"Q2": "a unique take on the topic",
		},
	}
	insights := map[string]analysis.Insight{
		"Q1": {TotalResponses: 10, AvgSimilarity: 0.8, FrequentAnswers: []string{"gravity pulls objects down"}},
		"Q2": {TotalResponses: 10, AvgSimilarity: 0.1},
	}

	drafts := GenerateStudentFeedback(student, insights)
	require.Len(t, drafts, 2)

	q1 := drafts["Q1"]
	assert.True(t, q1.IsCommon)
	assert.Equal(t, "common answer pattern", q1.PatternStatus)
	assert.Equal(t, 80.0, q1.ClassAvgSimilarity)

	q2 := drafts["Q2"]
	assert.False(t, q2.IsCommon)
	assert.Equal(t, "unique perspective", q2.PatternStatus)
	assert.Equal(t, "Your answer provides a unique perspective.", q2.Suggestion)
}

func TestGenerateClassFeedback(t *testing.T) {
	insight := analysis.Insight{
		TotalResponses:  10,
		AvgSimilarity:   0.5,
		FrequentAnswers: []string{"the common answer"},
		CommonWords: []analysis.WordCount{
			{Word: "gravity", Count: 8},
			{Word: "force", Count: 6},
		},
	}
	summary := analysis.Summary{UnderstandingLevel: "Moderate", RiskLevel: "Medium"}
	weak := analysis.WeakConcepts{ShortAnswers: 3, LowVocabDiversity: true}
	scores := analysis.Scores{InsightScore: 60}

	cf := GenerateClassFeedback("What is gravity?", insight, summary, weak, scores, 2)

	assert.Equal(t, "What is gravity?", cf.Question)
	assert.Equal(t, "Moderate", cf.UnderstandingLevel)
	assert.Equal(t, "Moderate understanding. Review key concepts with examples.", cf.Recommendation)
	assert.Equal(t, []string{"gravity", "force"}, cf.CommonKeywords)
	assert.Equal(t, 2, cf.ClustersCount)
	require.Len(t, cf.TeachingPoints, 3)
	assert.Contains(t, cf.TeachingPoints[0], "3 students gave short answers")
}

func TestGenerateClassFeedbackStrongClass(t *testing.T) {
	cf := GenerateClassFeedback("Q", analysis.Insight{TotalResponses: 5}, analysis.Summary{}, analysis.WeakConcepts{}, analysis.Scores{InsightScore: 80}, 1)

	assert.Equal(t, "Class shows strong understanding. Proceed to next topic with minor reinforcement.", cf.Recommendation)
	assert.Empty(t, cf.TeachingPoints)
}

func TestGenerateImprovementSuggestions(t *testing.T) {
	weakByQuestion := map[string]analysis.WeakConcepts{
		"Q1": {ShortAnswers: 4, LowVocabDiversity: true},
		"Q2": {ShortAnswers: 3},
	}
	insights := map[string]analysis.Insight{
		"Q1": {FrequentAnswers: []string{"a", "b"}},
		"Q2": {},
	}

	suggestions := GenerateImprovementSuggestions(weakByQuestion, insights, []string{"Q1", "Q2"})
	require.Len(t, suggestions, 3)

	assert.Equal(t, "answer_length", suggestions[0].Type)
	assert.Equal(t, "high", suggestions[0].Priority, "more than five short answers is high priority")
	assert.Equal(t, "vocabulary", suggestions[1].Type)
	assert.Equal(t, "common_patterns", suggestions[2].Type)
	assert.Equal(t, "QQ1: 2 repeated answers found.", suggestions[2].Message)
}

func TestGenerateImprovementSuggestionsEmpty(t *testing.T) {
	assert.Empty(t, GenerateImprovementSuggestions(nil, nil, nil))
}
