package analysis

import (
	"sort"
	"strings"

	"github.com/edulens/insight/processing"
)

// StudentStanding is one student's aggregate position in the class.
type StudentStanding struct {
	StudentID       string  `json:"student_id"`
	Name            string  `json:"name"`
	AvgScore        float64 `json:"avg_score"`
	AvgAnswerLength float64 `json:"avg_answer_length"`
}

// Classification buckets students by aggregate answer quality.
type Classification struct {
	Strong  []StudentStanding `json:"strong"`
	Weak    []StudentStanding `json:"weak"`
	Average []StudentStanding `json:"average"`
}

// ClassifyStudents scores each student's answers by length and
// originality and buckets them into strong (avg >= 40), weak
// (avg <= 20) and average. Strong and weak lists are capped at ten.
func ClassifyStudents(grouped processing.Grouped, insights map[string]Insight) Classification {
	type tally struct {
		name    string
		scores  []float64
		lengths []int
	}
	tallies := make(map[string]*tally)
	var order []string

	for _, questionID := range grouped.QuestionIDs() {
		insight := insights[questionID]
		frequent := make(map[string]bool, len(insight.FrequentAnswers))
		for _, a := range insight.FrequentAnswers {
			frequent[a] = true
		}

		for _, row := range grouped[questionID] {
			t, ok := tallies[row.StudentID]
			if !ok {
				t = &tally{name: row.StudentName}
				tallies[row.StudentID] = t
				order = append(order, row.StudentID)
			}

			length := wordCount(row.Answer)
			t.lengths = append(t.lengths, length)

			score := 5.0
			switch {
			case length >= 10:
				score = 30
			case length >= 5:
				score = 20
			}
			if length <= 4 {
				score -= 10
			}
			if len(insight.FrequentAnswers) > 0 && !frequent[row.Answer] {
				score += 20
			}
			t.scores = append(t.scores, score)
		}
	}

	var classification Classification
	for _, studentID := range order {
		t := tallies[studentID]

		var scoreSum float64
		for _, s := range t.scores {
			scoreSum += s
		}
		var lengthSum int
		for _, l := range t.lengths {
			lengthSum += l
		}

		avgScore := 0.0
		if len(t.scores) > 0 {
			avgScore = scoreSum / float64(len(t.scores))
		}
		avgLength := 0.0
		if len(t.lengths) > 0 {
			avgLength = float64(lengthSum) / float64(len(t.lengths))
		}

		standing := StudentStanding{
			StudentID:       studentID,
			Name:            t.name,
			AvgScore:        round1(avgScore),
			AvgAnswerLength: round1(avgLength),
		}

		switch {
		case avgScore >= 40:
			classification.Strong = append(classification.Strong, standing)
		case avgScore <= 20:
			classification.Weak = append(classification.Weak, standing)
		default:
			classification.Average = append(classification.Average, standing)
		}
	}

	byScoreDesc := func(list []StudentStanding) func(i, j int) bool {
		return func(i, j int) bool {
			if list[i].AvgScore != list[j].AvgScore {
				return list[i].AvgScore > list[j].AvgScore
			}
			return list[i].StudentID < list[j].StudentID
		}
	}
	sort.SliceStable(classification.Strong, byScoreDesc(classification.Strong))
	sort.SliceStable(classification.Weak, func(i, j int) bool {
		if classification.Weak[i].AvgScore != classification.Weak[j].AvgScore {
			return classification.Weak[i].AvgScore < classification.Weak[j].AvgScore
		}
		return classification.Weak[i].StudentID < classification.Weak[j].StudentID
	})
	sort.SliceStable(classification.Average, byScoreDesc(classification.Average))

	if len(classification.Strong) > 10 {
		classification.Strong = classification.Strong[:10]
	}
	if len(classification.Weak) > 10 {
		classification.Weak = classification.Weak[:10]
	}

	return classification
}

// UncertainAnswer is one answer flagged for uncertainty markers.
type UncertainAnswer struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Answer      string `json:"answer"`
	Issue       string `json:"issue"`
}

// ConceptualError groups flagged answers under a question.
type ConceptualError struct {
	QuestionID string            `json:"question"`
	Count      int               `json:"count"`
	Answers    []UncertainAnswer `json:"answers"`
}

// DetectConceptualErrors flags substantive answers (more than five
// words) hedged with uncertainty markers, keeping up to three samples
// per question.
func DetectConceptualErrors(grouped processing.Grouped) []ConceptualError {
	markers := []string{"don't", "does not", "not sure", "i think"}

	var errs []ConceptualError
	for _, questionID := range grouped.QuestionIDs() {
		var flagged []UncertainAnswer
		for _, row := range grouped[questionID] {
			lower := strings.ToLower(row.Answer)
			hedged := false
			for _, m := range markers {
				if strings.Contains(lower, m) {
					hedged = true
					break
				}
			}
			if hedged && wordCount(row.Answer) > 5 {
				flagged = append(flagged, UncertainAnswer{
					StudentID:   row.StudentID,
					StudentName: row.StudentName,
					Answer:      row.Answer,
					Issue:       "Uncertain answer",
				})
			}
		}
		if len(flagged) > 0 {
			samples := flagged
			if len(samples) > 3 {
				samples = samples[:3]
			}
			errs = append(errs, ConceptualError{
				QuestionID: questionID,
				Count:      len(flagged),
				Answers:    samples,
			})
		}
	}
	return errs
}
