package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/skillmap/internal/ai"
	"github.com/xxxsen/skillmap/internal/config"
	"github.com/xxxsen/skillmap/internal/model"
	appErr "github.com/xxxsen/skillmap/internal/pkg/errors"
)

// topicEmbedder maps skills onto fixed axes so related skills are identical
// vectors.
type topicEmbedder struct {
	mu    sync.Mutex
	calls int
}

func (e *topicEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	out := make([][]float32, len(texts))
	for i, t := range texts {
		switch strings.ToLower(t) {
		case "react", "vue", "angular", "frontend":
			out[i] = []float32{1, 0, 0}
		case "postgresql", "mysql", "sqlite", "databases":
			out[i] = []float32{0, 1, 0}
		default:
			out[i] = []float32{0, 0, 1}
		}
	}
	return out, nil
}

func (e *topicEmbedder) ModelName() string { return "topic" }

func (e *topicEmbedder) ProviderName() string { return "test" }

func newTestService(t *testing.T, embedder ai.IEmbedder) *SkillService {
	t.Helper()
	cfg := config.Default()
	cfg.Cluster.Seed = 7
	return NewSkillService(cfg, embedder)
}

func TestSkillService_ClusterLexical(t *testing.T) {
	svc := newTestService(t, nil)
	nodes, err := svc.Cluster(context.Background(), ModeLexical,
		[]string{"React Native", "React", "Go", "Go modules"},
		model.Hints{Categories: []string{"mobile"}}, 2)
	require.NoError(t, err)
	require.Len(t, nodes, 4)
	require.Equal(t, "mobile", nodes[0].Category)
	require.Equal(t, nodes[0].ClusterID, nodes[1].ClusterID)
	require.Equal(t, nodes[2].ClusterID, nodes[3].ClusterID)
	require.NotEqual(t, nodes[0].ClusterID, nodes[2].ClusterID)
}

func TestSkillService_ClusterSemanticUsesCache(t *testing.T) {
	embedder := &topicEmbedder{}
	svc := newTestService(t, embedder)
	skills := []string{"React", "PostgreSQL", "Vue", "MySQL", "Angular", "SQLite", "Docker"}

	nodes, err := svc.Cluster(context.Background(), ModeSemantic, skills, model.Hints{}, 3)
	require.NoError(t, err)
	require.Len(t, nodes, len(skills))
	require.Equal(t, nodes[0].ClusterID, nodes[2].ClusterID)
	require.Equal(t, nodes[1].ClusterID, nodes[3].ClusterID)
	require.NotEqual(t, nodes[0].ClusterID, nodes[1].ClusterID)
	require.Equal(t, 1, embedder.calls)

	_, err = svc.Cluster(context.Background(), ModeSemantic, skills, model.Hints{}, 3)
	require.NoError(t, err)
	require.Equal(t, 1, embedder.calls)
	require.Equal(t, len(skills), svc.CacheStats().Size)

	svc.ResetCache(context.Background())
	require.Equal(t, 0, svc.Cache().Len())
}

func TestSkillService_ClusterUnknownMode(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.Cluster(context.Background(), "graph", []string{"Go"}, model.Hints{}, 1)
	require.True(t, appErr.IsInvalid(err))
}

func TestSkillService_SemanticWithoutEmbedder(t *testing.T) {
	svc := newTestService(t, nil)
	_, err := svc.Cluster(context.Background(), ModeSemantic, []string{"Go", "Rust"}, model.Hints{}, 0)
	require.Error(t, err)
	require.True(t, ai.IsProviderError(err))
	require.True(t, appErr.IsUnavailable(err))
	require.Equal(t, "could not cluster/match skills; please retry", UserMessage(err))
	require.Empty(t, UserMessage(nil))
}

func TestSkillService_SemanticMatch(t *testing.T) {
	svc := newTestService(t, &topicEmbedder{})
	matches, err := svc.SemanticMatch(context.Background(),
		[]string{"Vue", "MySQL", "Kotlin"}, []string{"Frontend", "Databases"}, 0)
	require.NoError(t, err)
	require.Equal(t, []model.SemanticSkillMatch{
		{JobSkill: "Frontend", UserSkill: "Vue", Similarity: 1},
		{JobSkill: "Databases", UserSkill: "MySQL", Similarity: 1},
	}, matches)
}

func TestSkillService_MatchingOperations(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	jobs := []model.JobRequirement{
		{ID: "fe", RequiredSkills: []string{"React"}, Tools: []string{"Jira"}},
		{ID: "ops", RequiredSkills: []string{"Kubernetes", "Terraform"}, NiceToHaveSkills: []string{"Go"}},
	}
	user := []string{"React", "Go"}

	ranked := svc.Rank(ctx, user, jobs)
	require.Equal(t, "fe", ranked[0].Job.ID)

	gap := svc.Gap(ctx, user, jobs[1])
	require.Equal(t, []string{"Kubernetes", "Terraform"}, gap.MissingRequired)
	require.InDelta(t, 0.3, gap.CoverageScore, 1e-9)

	recs := svc.Recommend(ctx, user, jobs, 0)
	require.Len(t, recs, 2)

	nodes := []model.SkillNode{{ID: "skill_0", Label: "React"}, {ID: "skill_1", Label: "Jira"}}
	single := svc.Highlight(ctx, nodes, jobs[:1])
	require.Equal(t, 1.0, single[0].RelevanceScore)
	require.Equal(t, 0.7, single[1].RelevanceScore)
	multi := svc.Highlight(ctx, nodes, jobs)
	require.Equal(t, []string{"fe"}, multi[0].MatchedJobs)
}

func TestBuildEmbedder(t *testing.T) {
	ctx := context.Background()
	_, err := BuildEmbedder(ctx, config.EmbedConfig{Provider: "openai", Model: "m"})
	require.ErrorIs(t, err, ai.ErrUnavailable)

	e, err := BuildEmbedder(ctx, config.EmbedConfig{
		Provider:  "openai",
		Model:     "primary",
		Fallbacks: []config.FallbackEmbed{{Provider: "openai", Model: "backup", APIKey: "k"}},
	})
	require.NoError(t, err)
	require.Equal(t, "backup", e.ModelName())
	require.Equal(t, "openai", e.ProviderName())

	e, err = BuildEmbedder(ctx, config.EmbedConfig{
		Provider:  "openai",
		Model:     "primary",
		APIKey:    "k",
		Fallbacks: []config.FallbackEmbed{{Provider: "openai", Model: "backup", APIKey: "k"}},
	})
	require.NoError(t, err)
	require.Equal(t, "primary|backup", e.ModelName())
	require.Equal(t, "openai|openai", e.ProviderName())
	require.Equal(t, "openai/primary", ai.Source(e))
}
