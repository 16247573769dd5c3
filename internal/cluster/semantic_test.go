package cluster

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/skillmap/internal/model"
)

type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (f *fakeEmbedder) Embed(_ context.Context, skills []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(skills))
	for i, s := range skills {
		v, ok := f.vectors[strings.ToLower(s)]
		if !ok {
			v = []float32{0.1, 0.1, 0.1}
		}
		out[i] = v
	}
	return out, nil
}

func newTestSemantic(e Embedder) *Semantic {
	return NewSemantic(e, 0, rand.New(rand.NewPCG(1, 2)))
}

func TestDefaultK(t *testing.T) {
	require.Equal(t, 3, DefaultK(1))
	require.Equal(t, 3, DefaultK(15))
	require.Equal(t, 4, DefaultK(16))
	require.Equal(t, 8, DefaultK(40))
	require.Equal(t, 8, DefaultK(500))
}

func TestSemanticCluster_SeparatesOrthogonalGroups(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"react":      {1, 0, 0},
		"vue":        {2, 0, 0},
		"angular":    {0.5, 0, 0},
		"postgresql": {0, 1, 1},
		"mysql":      {0, 3, 3},
		"sqlite":     {0, 0.5, 0.5},
	}}
	skills := []string{"React", "PostgreSQL", "Vue", "MySQL", "Angular", "SQLite"}
	for seed := uint64(0); seed < 10; seed++ {
		s := NewSemantic(emb, 0, rand.New(rand.NewPCG(seed, seed+1)))
		nodes, err := s.Cluster(context.Background(), skills, SemanticOptions{NumClusters: 2})
		require.NoError(t, err)
		require.Len(t, nodes, len(skills))
		require.Equal(t, nodes[0].ClusterID, nodes[2].ClusterID)
		require.Equal(t, nodes[0].ClusterID, nodes[4].ClusterID)
		require.Equal(t, nodes[1].ClusterID, nodes[3].ClusterID)
		require.Equal(t, nodes[1].ClusterID, nodes[5].ClusterID)
		require.NotEqual(t, nodes[0].ClusterID, nodes[1].ClusterID)
	}
}

func TestSemanticCluster_BoundsAndCardinality(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{}}
	skills := make([]string, 0, 23)
	for i := 0; i < 23; i++ {
		skills = append(skills, strings.Repeat("x", i+1))
		emb.vectors[strings.Repeat("x", i+1)] = []float32{float32(i % 3), float32(i % 5), float32(i%7) + 1}
	}
	s := newTestSemantic(emb)
	for _, k := range []int{0, 1, 2, 5, 22, 23, 40} {
		nodes, err := s.Cluster(context.Background(), skills, SemanticOptions{NumClusters: k})
		require.NoError(t, err)
		require.Len(t, nodes, len(skills))
		effective := k
		if effective <= 0 {
			effective = DefaultK(len(skills))
		}
		if effective > len(skills) {
			effective = len(skills)
		}
		for i, n := range nodes {
			require.Equal(t, skills[i], n.Label)
			require.GreaterOrEqual(t, n.ClusterID, 0)
			require.Less(t, n.ClusterID, effective)
		}
	}
}

func TestSemanticCluster_OneClusterPerSkillWhenKTooLarge(t *testing.T) {
	emb := &fakeEmbedder{}
	nodes, err := newTestSemantic(emb).Cluster(context.Background(), []string{"Go", "Rust"}, SemanticOptions{})
	require.NoError(t, err)
	require.Equal(t, 0, nodes[0].ClusterID)
	require.Equal(t, 1, nodes[1].ClusterID)
}

func TestSemanticCluster_EmptyInputSkipsProvider(t *testing.T) {
	emb := &fakeEmbedder{}
	nodes, err := newTestSemantic(emb).Cluster(context.Background(), nil, SemanticOptions{NumClusters: 3})
	require.NoError(t, err)
	require.Empty(t, nodes)
	require.Equal(t, 0, emb.calls)
}

func TestSemanticCluster_PropagatesEmbedderError(t *testing.T) {
	boom := errors.New("rate limited")
	emb := &fakeEmbedder{err: boom}
	nodes, err := newTestSemantic(emb).Cluster(context.Background(), []string{"Go"}, SemanticOptions{})
	require.ErrorIs(t, err, boom)
	require.Nil(t, nodes)
}

func TestSemanticCluster_AppliesHints(t *testing.T) {
	emb := &fakeEmbedder{}
	nodes, err := newTestSemantic(emb).Cluster(context.Background(), []string{"Go", "Rust", "Zig"}, SemanticOptions{
		NumClusters: 5,
		Hints: model.Hints{
			Weights:    []float64{1.5, 2.5},
			Categories: []string{"backend"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1.5, nodes[0].Weight)
	require.Equal(t, 2.5, nodes[1].Weight)
	require.Equal(t, model.DefaultWeight, nodes[2].Weight)
	require.Equal(t, "backend", nodes[0].Category)
	require.Equal(t, "", nodes[1].Category)
}

func TestCosineKMeans_ConvergesEarly(t *testing.T) {
	vectors := [][]float64{{1, 0}, {0.9, 0.1}, {0, 1}, {0.1, 0.9}}
	assignments, iterations, converged := cosineKMeans(vectors, [][]float64{{1, 0}, {0, 1}}, 50)
	require.True(t, converged)
	require.Less(t, iterations, 50)
	require.Equal(t, []int{0, 0, 1, 1}, assignments)
}

func TestSeedPlusPlus_AllIdenticalVectors(t *testing.T) {
	vectors := [][]float64{{1, 1}, {1, 1}, {1, 1}}
	centroids := seedPlusPlus(vectors, 2, rand.New(rand.NewPCG(3, 4)))
	require.Len(t, centroids, 2)
}

func TestSeedPlusPlus_NeverReselectsCentroid(t *testing.T) {
	vectors := [][]float64{{1, 0}, {0, 1}, {1, 0}, {1, 0}}
	for seed := uint64(0); seed < 200; seed++ {
		centroids := seedPlusPlus(vectors, 2, rand.New(rand.NewPCG(seed, seed+1)))
		require.Len(t, centroids, 2)
		require.NotEqual(t, centroids[0], centroids[1], "seed %d", seed)
	}
}

func TestLastPositive(t *testing.T) {
	tests := []struct {
		dist []float64
		want int
	}{
		{dist: []float64{0, 0.5, 0}, want: 1},
		{dist: []float64{0.2, 0.5, 0.1}, want: 2},
		{dist: []float64{0.3, 0, 0}, want: 0},
		{dist: []float64{0, 0}, want: 1},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, lastPositive(tt.dist))
	}
}
