package processing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []Row {
	return []Row{
		{StudentID: "S1", StudentName: "Ada", QuestionID: "Q2", QuestionText: "Define velocity", Answer: "Speed with direction"},
		{StudentID: "S1", StudentName: "Ada", QuestionID: "Q1", QuestionText: "What is gravity?", Answer: "A force"},
		{StudentID: "S2", StudentName: "Ben", QuestionID: "Q1", QuestionText: "What is gravity?", Answer: "Things fall"},
	}
}

func TestGroupByQuestion(t *testing.T) {
	grouped := GroupByQuestion(sampleRows())

	require.Len(t, grouped, 2)
	assert.Len(t, grouped["Q1"], 2)
	assert.Len(t, grouped["Q2"], 1)
}

func TestQuestionIDsSorted(t *testing.T) {
	grouped := GroupByQuestion(sampleRows())
	assert.Equal(t, []string{"Q1", "Q2"}, grouped.QuestionIDs())
}

func TestAnswersPreservesUploadOrder(t *testing.T) {
	grouped := GroupByQuestion(sampleRows())
	assert.Equal(t, []string{"A force", "Things fall"}, grouped.Answers("Q1"))
	assert.Empty(t, grouped.Answers("Q9"))
}

func TestStudents(t *testing.T) {
	students := Students(sampleRows())

	require.Len(t, students, 2)
	ada := students["S1"]
	require.NotNil(t, ada)
	assert.Equal(t, "Ada", ada.StudentName)
	assert.Equal(t, map[string]string{
		"Q1": "A force",
		"Q2": "Speed with direction",
	}, ada.Answers)
}
