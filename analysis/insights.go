package analysis

import (
	"sort"
	"strings"

	"github.com/edulens/insight/processing"
)

// WordCount is one entry of a question's most common words.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Mistake is a detected common-mistake pattern across a question's
// answers.
type Mistake struct {
	Type       string  `json:"type"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Insight is the raw per-question analysis before scoring.
type Insight struct {
	TotalResponses  int         `json:"total_responses"`
	CommonWords     []WordCount `json:"common_words"`
	AvgSimilarity   float64     `json:"avg_similarity"`
	FrequentAnswers []string    `json:"frequent_answers"`
	Difficulty      string      `json:"difficulty"`
	CommonMistakes  []Mistake   `json:"common_mistakes"`
}

// AnalyzeGroupedAnswers computes an Insight for every question group.
func AnalyzeGroupedAnswers(grouped processing.Grouped) map[string]Insight {
	insights := make(map[string]Insight, len(grouped))
	for _, questionID := range grouped.QuestionIDs() {
		answers := grouped.Answers(questionID)
		avgSim := MeanPairwiseSimilarity(answers)

		insights[questionID] = Insight{
			TotalResponses:  len(answers),
			CommonWords:     topWords(answers, 5),
			AvgSimilarity:   round2(avgSim),
			FrequentAnswers: frequentAnswers(answers),
			Difficulty:      calculateDifficulty(answers, avgSim),
			CommonMistakes:  detectCommonMistakes(answers),
		}
	}
	return insights
}

// topWords counts lowercased whitespace tokens across all answers and
// returns the n most common, first occurrence winning ties.
func topWords(answers []string, n int) []WordCount {
	counts := make(map[string]int)
	var order []string
	for _, word := range splitWords(strings.Join(answers, " ")) {
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	firstSeen := make(map[string]int, len(order))
	for i, w := range order {
		firstSeen[w] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	top := make([]WordCount, len(order))
	for i, w := range order {
		top[i] = WordCount{Word: w, Count: counts[w]}
	}
	return top
}

// frequentAnswers returns answers submitted verbatim more than once,
// in first-occurrence order.
func frequentAnswers(answers []string) []string {
	counts := make(map[string]int, len(answers))
	var order []string
	for _, a := range answers {
		if counts[a] == 0 {
			order = append(order, a)
		}
		counts[a]++
	}
	var frequent []string
	for _, a := range order {
		if counts[a] > 1 {
			frequent = append(frequent, a)
		}
	}
	return frequent
}

// calculateDifficulty weighs answer length, vocabulary spread and
// similarity into an Easy/Medium/Hard label.
func calculateDifficulty(answers []string, avgSimilarity float64) string {
	if len(answers) == 0 {
		return "Easy"
	}

	var totalWords int
	for _, a := range answers {
		totalWords += wordCount(a)
	}
	avgLength := float64(totalWords) / float64(len(answers))

	allWords := splitWords(strings.Join(answers, " "))
	unique := make(map[string]bool, len(allWords))
	for _, w := range allWords {
		unique[w] = true
	}
	denom := len(allWords)
	if denom == 0 {
		denom = 1
	}
	uniqueRatio := float64(len(unique)) / float64(denom)

	score := (avgLength/20)*0.4 + uniqueRatio*0.3 + (1-avgSimilarity)*0.3
	switch {
	case score > 0.6:
		return "Hard"
	case score > 0.35:
		return "Medium"
	default:
		return "Easy"
	}
}

// detectCommonMistakes scans answers for shallow-response patterns.
func detectCommonMistakes(answers []string) []Mistake {
	noContent := map[string]bool{
		"": true, "n/a": true, "none": true, "idk": true, "don't know": true,
	}

	checks := []struct {
		name  string
		match func(string) bool
	}{
		{"short_answer", func(a string) bool { return wordCount(a) <= 3 }},
		{"no_content", func(a string) bool { return noContent[strings.ToLower(strings.TrimSpace(a))] }},
		{"incomplete", func(a string) bool { return !strings.HasSuffix(a, ".") && wordCount(a) < 5 }},
	}

	var mistakes []Mistake
	for _, check := range checks {
		count := 0
		for _, a := range answers {
			if check.match(a) {
				count++
			}
		}
		if count > 0 {
			mistakes = append(mistakes, Mistake{
				Type:       check.name,
				Count:      count,
				Percentage: round1(float64(count) / float64(len(answers)) * 100),
			})
		}
	}
	return mistakes
}

func splitWords(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
