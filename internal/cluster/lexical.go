package cluster

import (
	"github.com/xxxsen/skillmap/internal/model"
	"github.com/xxxsen/skillmap/internal/vecmath"
)

const DefaultLexicalIterations = 20

// Lexical clusters skills by TF-IDF over word tokens and a greedy cosine
// k-means seeded with the first k vectors. It is deterministic for a given
// input order.
type Lexical struct {
	iterations int
}

func NewLexical(iterations int) *Lexical {
	if iterations <= 0 {
		iterations = DefaultLexicalIterations
	}
	return &Lexical{iterations: iterations}
}

// ClusterSkills runs the lexical engine with default settings.
func ClusterSkills(skills []string, k int) []model.SkillNode {
	return NewLexical(DefaultLexicalIterations).Cluster(skills, k)
}

func (l *Lexical) Cluster(skills []string, k int) []model.SkillNode {
	return l.ClusterWithHints(skills, k, model.Hints{})
}

func (l *Lexical) ClusterWithHints(skills []string, k int, hints model.Hints) []model.SkillNode {
	nodes := make([]model.SkillNode, 0, len(skills))
	if len(skills) == 0 {
		return nodes
	}
	docs := make([][]string, len(skills))
	for i, s := range skills {
		docs[i] = Tokenize(s)
	}
	tfidf := buildTFIDF(docs)
	vectors := make([][]float64, len(docs))
	for i, tokens := range docs {
		vectors[i] = tfidf.vector(tokens)
	}
	assignments := greedyKMeans(vectors, clampK(k, len(skills)), l.iterations)
	for i, s := range skills {
		nodes = append(nodes, model.SkillNode{
			ID:        model.SkillNodeID(i),
			Label:     s,
			Category:  hints.CategoryAt(i),
			Weight:    hints.WeightAt(i),
			ClusterID: assignments[i],
		})
	}
	return nodes
}

// clampK bounds k to [1, n] so k-means never has more centroids than points.
func clampK(k, n int) int {
	if k > n {
		k = n
	}
	if k < 1 {
		k = 1
	}
	return k
}

// greedyKMeans runs a fixed number of assign/update rounds without a
// convergence check. Centroids that receive no points keep their value.
func greedyKMeans(vectors [][]float64, k, iterations int) []int {
	centroids := make([][]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float64(nil), vectors[i]...)
	}
	assignments := make([]int, len(vectors))
	dim := len(vectors[0])
	for iter := 0; iter < iterations; iter++ {
		for i, v := range vectors {
			assignments[i] = vecmath.NearestCentroid(v, centroids)
		}
		sums := make([][]float64, k)
		for i, v := range vectors {
			c := assignments[i]
			if sums[c] == nil {
				sums[c] = make([]float64, dim)
			}
			vecmath.AddInto(sums[c], v)
		}
		for c, sum := range sums {
			if sum == nil {
				continue
			}
			centroids[c] = vecmath.Normalize(sum)
		}
	}
	return assignments
}
