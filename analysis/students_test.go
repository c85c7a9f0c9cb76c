package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulens/insight/processing"
)

func TestClassifyStudents(t *testing.T) {
	rows := []processing.Row{
		{StudentID: "S1", StudentName: "Ada", QuestionID: "Q1",
			Answer: "this answer has exactly ten words one two three four"},
		{StudentID: "S2", StudentName: "Ben", QuestionID: "Q1",
			Answer: "common answer"},
		{StudentID: "S3", StudentName: "Cara", QuestionID: "Q1",
			Answer: "common answer repeated by many students in this class today"},
	}
	grouped := processing.GroupByQuestion(rows)
	insights := map[string]Insight{
		"Q1": {
			TotalResponses: 3,
			FrequentAnswers: []string{
				"common answer",
				"common answer repeated by many students in this class today",
			},
		},
	}

	classification := ClassifyStudents(grouped, insights)

	// Ada: 10 words (30) + original answer (+20) = 50 -> strong
	require.Len(t, classification.Strong, 1)
	assert.Equal(t, "S1", classification.Strong[0].StudentID)
	assert.Equal(t, 50.0, classification.Strong[0].AvgScore)

	// Ben: 2 words (5 - 10) = -5 -> weak
	require.Len(t, classification.Weak, 1)
	assert.Equal(t, "S2", classification.Weak[0].StudentID)

	// Cara: 10 words (30), frequent answer, no originality bonus -> average
	require.Len(t, classification.Average, 1)
	assert.Equal(t, "S3", classification.Average[0].StudentID)
	assert.Equal(t, 10.0, classification.Average[0].AvgAnswerLength)
}

func TestClassifyStudentsCapsListsAtTen(t *testing.T) {
	var rows []processing.Row
	for i := 0; i < 15; i++ {
		rows = append(rows, processing.Row{
			StudentID:  string(rune('a' + i)),
			QuestionID: "Q1",
			Answer:     "a detailed answer containing well over ten separate words in total here",
		})
	}
	grouped := processing.GroupByQuestion(rows)
	insights := map[string]Insight{"Q1": {TotalResponses: 15, FrequentAnswers: []string{"something else"}}}

	classification := ClassifyStudents(grouped, insights)
	assert.Len(t, classification.Strong, 10)
}

func TestDetectConceptualErrors(t *testing.T) {
	rows := []processing.Row{
		{StudentID: "S1", StudentName: "Ada", QuestionID: "Q1",
			Answer: "i think gravity is what makes the apple fall down"},
		{StudentID: "S2", StudentName: "Ben", QuestionID: "Q1",
			Answer: "gravity attracts objects toward the center of the earth"},
		{StudentID: "S3", StudentName: "Cara", QuestionID: "Q1",
			Answer: "not sure"},
	}
	grouped := processing.GroupByQuestion(rows)

	errs := DetectConceptualErrors(grouped)
	require.Len(t, errs, 1)
	assert.Equal(t, "Q1", errs[0].QuestionID)
	assert.Equal(t, 1, errs[0].Count, "short hedged answers are not flagged")
	assert.Equal(t, "S1", errs[0].Answers[0].StudentID)
	assert.Equal(t, "Uncertain answer", errs[0].Answers[0].Issue)
}

func TestDetectConceptualErrorsNoMarkers(t *testing.T) {
	grouped := processing.GroupByQuestion([]processing.Row{
		{StudentID: "S1", QuestionID: "Q1", Answer: "a confident and complete answer to the question"},
	})
	assert.Empty(t, DetectConceptualErrors(grouped))
}
