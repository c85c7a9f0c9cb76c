package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulens/insight/processing"
)

func groupOf(questionID string, answers ...string) processing.Grouped {
	rows := make([]processing.Row, len(answers))
	for i, a := range answers {
		rows[i] = processing.Row{
			StudentID:  "S" + string(rune('1'+i)),
			QuestionID: questionID,
			Answer:     a,
		}
	}
	return processing.GroupByQuestion(rows)
}

func TestAnalyzeGroupedAnswers(t *testing.T) {
	grouped := groupOf("Q1",
		"Photosynthesis makes food",
		"Photosynthesis makes food",
		"idk",
	)

	insights := AnalyzeGroupedAnswers(grouped)
	require.Contains(t, insights, "Q1")
	insight := insights["Q1"]

	assert.Equal(t, 3, insight.TotalResponses)
	assert.Equal(t, []string{"Photosynthesis makes food"}, insight.FrequentAnswers)
	assert.Contains(t, []string{"Easy", "Medium", "Hard"}, insight.Difficulty)

	require.NotEmpty(t, insight.CommonWords)
	assert.Equal(t, WordCount{Word: "photosynthesis", Count: 2}, insight.CommonWords[0])

	byType := make(map[string]Mistake, len(insight.CommonMistakes))
	for _, m := range insight.CommonMistakes {
		byType[m.Type] = m
	}
	assert.Equal(t, 3, byType["short_answer"].Count)
	assert.Equal(t, 1, byType["no_content"].Count)
	assert.Equal(t, 3, byType["incomplete"].Count)
}

func TestAnalyzeGroupedAnswersIdenticalLongAnswers(t *testing.T) {
	grouped := groupOf("Q2",
		"the cell is the basic unit of life.",
		"the cell is the basic unit of life.",
	)

	insight := AnalyzeGroupedAnswers(grouped)["Q2"]
	assert.InDelta(t, 1.0, insight.AvgSimilarity, 1e-9)
	assert.Equal(t, "Easy", insight.Difficulty)
	assert.Equal(t, []string{"the cell is the basic unit of life."}, insight.FrequentAnswers)
	assert.Empty(t, insight.CommonMistakes)
}

func TestTopWordsTieBreaksOnFirstOccurrence(t *testing.T) {
	words := topWords([]string{"alpha beta", "beta alpha gamma"}, 5)
	require.Len(t, words, 3)
	assert.Equal(t, "alpha", words[0].Word)
	assert.Equal(t, "beta", words[1].Word)
	assert.Equal(t, WordCount{Word: "gamma", Count: 1}, words[2])
}

func TestTopWordsCapsAtN(t *testing.T) {
	words := topWords([]string{"one two three four five six seven"}, 5)
	assert.Len(t, words, 5)
}

func TestFrequentAnswersOrder(t *testing.T) {
	answers := []string{"b", "a", "b", "a", "c"}
	assert.Equal(t, []string{"b", "a"}, frequentAnswers(answers))
	assert.Empty(t, frequentAnswers([]string{"x", "y", "z"}))
}
