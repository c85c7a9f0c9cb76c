package analysis

import "math"

const (
	// MaxClusters caps k-means cluster counts per question.
	MaxClusters      = 5
	kmeansIterations = 10
)

// ClusterAnswers groups similar answers using TF-IDF vectors and
// k-means. Fewer than two answers yield no clusters; identical
// answers collapse into a single cluster; when k-means degenerates to
// one cluster the answers are split into even groups so the dashboard
// always has something to compare.
func ClusterAnswers(answers []string) [][]string {
	if len(answers) < 2 {
		return nil
	}

	unique := make(map[string]bool, len(answers))
	for _, a := range answers {
		unique[a] = true
	}
	if len(unique) == 1 {
		return [][]string{answers}
	}

	vectors := Vectorize(answers)
	if vectors == nil {
		return [][]string{answers}
	}

	k := MaxClusters
	if len(unique) < k {
		k = len(unique)
	}
	if len(answers) < k {
		k = len(answers)
	}
	if k < 2 {
		return [][]string{answers}
	}

	labels := kmeans(vectors, k)

	byLabel := make(map[int][]string)
	order := make([]int, 0, k)
	for i, label := range labels {
		if _, seen := byLabel[label]; !seen {
			order = append(order, label)
		}
		byLabel[label] = append(byLabel[label], answers[i])
	}

	if len(byLabel) == 1 {
		return SplitIntoGroups(answers, MaxClusters)
	}

	clusters := make([][]string, 0, len(byLabel))
	for _, label := range order {
		clusters = append(clusters, byLabel[label])
	}
	return clusters
}

// SplitIntoGroups splits answers into up to maxGroups even groups,
// used when all answers land in one cluster.
func SplitIntoGroups(answers []string, maxGroups int) [][]string {
	if len(answers) <= maxGroups {
		groups := make([][]string, 0, len(answers))
		for _, a := range answers {
			groups = append(groups, []string{a})
		}
		return groups
	}

	size := len(answers) / maxGroups
	groups := make([][]string, 0, maxGroups)
	for i := 0; i < maxGroups; i++ {
		start := i * size
		if i == maxGroups-1 {
			groups = append(groups, answers[start:])
		} else {
			groups = append(groups, answers[start:start+size])
		}
	}
	return groups
}

// kmeans runs Lloyd's algorithm with deterministic farthest-point
// initialization so repeated analyses of the same upload agree.
func kmeans(vectors [][]float64, k int) []int {
	dim := len(vectors[0])

	// Seed centers: first vector, then the point farthest from its
	// nearest chosen center.
	centers := make([][]float64, 0, k)
	centers = append(centers, append([]float64(nil), vectors[0]...))
	for len(centers) < k {
		bestIdx, bestDist := 0, -1.0
		for i, v := range vectors {
			nearest := math.MaxFloat64
			for _, c := range centers {
				if d := squaredDistance(v, c); d < nearest {
					nearest = d
				}
			}
			if nearest > bestDist {
				bestDist = nearest
				bestIdx = i
			}
		}
		centers = append(centers, append([]float64(nil), vectors[bestIdx]...))
	}

	labels := make([]int, len(vectors))
	for iter := 0; iter < kmeansIterations; iter++ {
		changed := false
		for i, v := range vectors {
			best, bestDist := 0, math.MaxFloat64
			for j, c := range centers {
				if d := squaredDistance(v, c); d < bestDist {
					bestDist = d
					best = j
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		counts := make([]int, k)
		sums := make([][]float64, k)
		for j := range sums {
			sums[j] = make([]float64, dim)
		}
		for i, v := range vectors {
			counts[labels[i]]++
			for d, x := range v {
				sums[labels[i]][d] += x
			}
		}
		for j := range centers {
			if counts[j] == 0 {
				continue // keep the old center for empty clusters
			}
			for d := range centers[j] {
				centers[j][d] = sums[j][d] / float64(counts[j])
			}
		}
	}
	return labels
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// WeakConcepts holds simple weak-understanding signals for a question.
type WeakConcepts struct {
	ShortAnswers      int  `json:"short_answers"`
	LowVocabDiversity bool `json:"low_vocab_diversity"`
}

// DetectWeakConcepts flags shallow answers (four words or fewer) and
// low vocabulary diversity (under 40% unique words across all
// answers).
func DetectWeakConcepts(answers []string) WeakConcepts {
	var weak WeakConcepts

	var allWords []string
	for _, a := range answers {
		words := wordCount(a)
		if words <= 4 {
			weak.ShortAnswers++
		}
		allWords = append(allWords, splitWords(a)...)
	}

	unique := make(map[string]bool, len(allWords))
	for _, w := range allWords {
		unique[w] = true
	}
	total := len(allWords)
	if total == 0 {
		total = 1
	}
	weak.LowVocabDiversity = float64(len(unique))/float64(total) < 0.4

	return weak
}
