// Package analysis derives per-question insights from grouped student
// answers: TF-IDF similarity, answer clustering, weak-concept
// heuristics, scores and structured summaries.
package analysis

import (
	"math"
	"strings"
	"unicode"
)

// english stopwords dropped during vectorization.
var stopwords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`a about above after again against all am an and any are as at be
	because been before being below between both but by can cannot could did do does doing down during
	each few for from further had has have having he her here hers herself him himself his how i if in
	into is it its itself just me more most my myself no nor not now of off on once only or other our
	ours ourselves out over own same she should so some such than that the their theirs them themselves
	then there these they this those through to too under until up very was we were what when where
	which while who whom why will with would you your yours yourself yourselves`) {
		stopwords[w] = true
	}
}

// Tokenize lowercases text and extracts alphanumeric tokens of at
// least two characters, dropping stopwords.
func Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() >= 2 {
			tok := current.String()
			if !stopwords[tok] {
				tokens = append(tokens, tok)
			}
		}
		current.Reset()
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// Vectorize builds L2-normalized TF-IDF vectors for the answers.
// Term frequency is the raw count and idf = ln((1+n)/(1+df)) + 1.
// The vector slice is empty when the answers yield no vocabulary.
func Vectorize(answers []string) [][]float64 {
	vocab := make(map[string]int)
	docTokens := make([][]string, len(answers))
	for i, answer := range answers {
		docTokens[i] = Tokenize(answer)
		for _, tok := range docTokens[i] {
			if _, ok := vocab[tok]; !ok {
				vocab[tok] = len(vocab)
			}
		}
	}
	if len(vocab) == 0 {
		return nil
	}

	df := make([]int, len(vocab))
	for _, toks := range docTokens {
		seen := make(map[int]bool, len(toks))
		for _, tok := range toks {
			seen[vocab[tok]] = true
		}
		for idx := range seen {
			df[idx]++
		}
	}

	n := float64(len(answers))
	idf := make([]float64, len(vocab))
	for i, d := range df {
		idf[i] = math.Log((1+n)/(1+float64(d))) + 1
	}

	vectors := make([][]float64, len(answers))
	for i, toks := range docTokens {
		vec := make([]float64, len(vocab))
		for _, tok := range toks {
			vec[vocab[tok]]++
		}
		var norm float64
		for j := range vec {
			vec[j] *= idf[j]
			norm += vec[j] * vec[j]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range vec {
				vec[j] /= norm
			}
		}
		vectors[i] = vec
	}
	return vectors
}

// CosineSimilarity of two equal-length vectors. Zero vectors score 0.
func CosineSimilarity(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// MeanPairwiseSimilarity is the mean of the full n×n cosine
// similarity matrix, self-similarity included. Returns 0 for fewer
// than two answers.
func MeanPairwiseSimilarity(answers []string) float64 {
	if len(answers) < 2 {
		return 0
	}
	vectors := Vectorize(answers)
	if vectors == nil {
		return 0
	}
	n := len(vectors)
	var sum float64
	for i := 0; i < n; i++ {
		sum += CosineSimilarity(vectors[i], vectors[i])
		for j := i + 1; j < n; j++ {
			sum += 2 * CosineSimilarity(vectors[i], vectors[j])
		}
	}
	return sum / float64(n*n)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
