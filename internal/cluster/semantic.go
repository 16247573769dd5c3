package cluster

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/skillmap/internal/model"
	"github.com/xxxsen/skillmap/internal/vecmath"
)

const DefaultSemanticIterations = 50

// Embedder returns one vector per skill, in input order.
type Embedder interface {
	Embed(ctx context.Context, skills []string) ([][]float32, error)
}

type SemanticOptions struct {
	NumClusters int
	model.Hints
}

type Semantic struct {
	embedder      Embedder
	maxIterations int

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSemantic builds the embedding-based engine. A nil rnd seeds a fresh
// source, so cluster assignment is not reproducible across calls.
func NewSemantic(embedder Embedder, maxIterations int, rnd *rand.Rand) *Semantic {
	if maxIterations <= 0 {
		maxIterations = DefaultSemanticIterations
	}
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Semantic{embedder: embedder, maxIterations: maxIterations, rnd: rnd}
}

// DefaultK is max(3, min(8, ceil(n/5))).
func DefaultK(n int) int {
	k := (n + 4) / 5
	if k > 8 {
		k = 8
	}
	if k < 3 {
		k = 3
	}
	return k
}

func (s *Semantic) Cluster(ctx context.Context, skills []string, opts SemanticOptions) ([]model.SkillNode, error) {
	nodes := make([]model.SkillNode, 0, len(skills))
	if len(skills) == 0 {
		return nodes, nil
	}
	logger := logutil.GetLogger(ctx).With(zap.Int("skills", len(skills)))
	k := opts.NumClusters
	if k <= 0 {
		k = DefaultK(len(skills))
	}
	embeddings, err := s.embedder.Embed(ctx, skills)
	if err != nil {
		return nil, err
	}
	if len(embeddings) != len(skills) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d skills", len(embeddings), len(skills))
	}

	var assignments []int
	if k >= len(skills) {
		logger.Debug("cluster count covers every skill, skipping k-means", zap.Int("k", k))
		assignments = make([]int, len(skills))
		for i := range assignments {
			assignments[i] = i
		}
	} else {
		vectors := make([][]float64, len(embeddings))
		for i, e := range embeddings {
			vectors[i] = vecmath.Float64s(e)
		}
		s.mu.Lock()
		centroids := seedPlusPlus(vectors, k, s.rnd)
		s.mu.Unlock()
		var iterations int
		var converged bool
		assignments, iterations, converged = cosineKMeans(vectors, centroids, s.maxIterations)
		logger.Debug("semantic k-means finished",
			zap.Int("k", k),
			zap.Int("iterations", iterations),
			zap.Bool("converged", converged),
		)
	}

	for i, skill := range skills {
		nodes = append(nodes, model.SkillNode{
			ID:        model.SkillNodeID(i),
			Label:     skill,
			Category:  opts.CategoryAt(i),
			Weight:    opts.WeightAt(i),
			ClusterID: assignments[i],
		})
	}
	return nodes, nil
}

// seedPlusPlus picks k initial centroids: the first uniformly, each next one
// with probability proportional to (1 - cos)^2 against its nearest chosen
// centroid. When every distance is zero the pick falls back to uniform.
func seedPlusPlus(vectors [][]float64, k int, rnd *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, vectors[rnd.IntN(len(vectors))])
	dist := make([]float64, len(vectors))
	for len(centroids) < k {
		var total float64
		for i, v := range vectors {
			best := -1.0
			for _, c := range centroids {
				d := 1 - vecmath.Cosine(v, c)
				d *= d
				if best < 0 || d < best {
					best = d
				}
			}
			dist[i] = best
			total += best
		}
		if total <= 0 {
			centroids = append(centroids, vectors[rnd.IntN(len(vectors))])
			continue
		}
		target := rnd.Float64() * total
		pick := lastPositive(dist)
		for i, d := range dist {
			target -= d
			if target < 0 {
				pick = i
				break
			}
		}
		centroids = append(centroids, vectors[pick])
	}
	return centroids
}

// lastPositive returns the last index with a non-zero distance, so rounding
// in the weighted draw never re-selects an existing centroid.
func lastPositive(dist []float64) int {
	for i := len(dist) - 1; i >= 0; i-- {
		if dist[i] > 0 {
			return i
		}
	}
	return len(dist) - 1
}

// cosineKMeans iterates until no assignment changes or maxIterations is hit.
func cosineKMeans(vectors, seeds [][]float64, maxIterations int) ([]int, int, bool) {
	k := len(seeds)
	centroids := make([][]float64, k)
	for i, c := range seeds {
		centroids[i] = append([]float64(nil), c...)
	}
	assignments := make([]int, len(vectors))
	for i := range assignments {
		assignments[i] = -1
	}
	dim := len(vectors[0])
	for iter := 1; iter <= maxIterations; iter++ {
		changed := false
		for i, v := range vectors {
			c := vecmath.NearestCentroid(v, centroids)
			if c != assignments[i] {
				assignments[i] = c
				changed = true
			}
		}
		if !changed {
			return assignments, iter, true
		}
		sums := make([][]float64, k)
		counts := make([]int, k)
		for i, v := range vectors {
			c := assignments[i]
			if sums[c] == nil {
				sums[c] = make([]float64, dim)
			}
			vecmath.AddInto(sums[c], v)
			counts[c]++
		}
		for c, sum := range sums {
			if counts[c] == 0 {
				continue
			}
			for j := range sum {
				sum[j] /= float64(counts[c])
			}
			centroids[c] = vecmath.Normalize(sum)
		}
	}
	return assignments, maxIterations, false
}
