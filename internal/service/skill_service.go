package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/skillmap/internal/ai"
	"github.com/xxxsen/skillmap/internal/cluster"
	"github.com/xxxsen/skillmap/internal/config"
	"github.com/xxxsen/skillmap/internal/embedcache"
	"github.com/xxxsen/skillmap/internal/matching"
	"github.com/xxxsen/skillmap/internal/model"
	appErr "github.com/xxxsen/skillmap/internal/pkg/errors"
)

const (
	ModeLexical  = "lexical"
	ModeSemantic = "semantic"
)

type SkillService struct {
	lexical  *cluster.Lexical
	semantic *cluster.Semantic
	fetcher  *embedcache.Fetcher
	cache    *embedcache.Cache

	defaultK           int
	semanticThreshold  float64
	maxRecommendations int
}

// NewSkillService wires both engines to one cache. embedder may be nil; only
// the semantic operations need it.
func NewSkillService(cfg *config.Config, embedder ai.IEmbedder) *SkillService {
	cache := embedcache.NewCache(cfg.Cache.Size, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	fetcher := embedcache.NewFetcher(embedder, cache, embedcache.FetcherConfig{
		BatchSize:         cfg.Embed.BatchSize,
		Concurrency:       cfg.Embed.Concurrency,
		RequestsPerSecond: cfg.Embed.RequestsPerSecond,
	})
	var rnd *rand.Rand
	if cfg.Cluster.Seed != 0 {
		rnd = rand.New(rand.NewPCG(cfg.Cluster.Seed, cfg.Cluster.Seed))
	}
	return &SkillService{
		lexical:            cluster.NewLexical(cfg.Cluster.LexicalIterations),
		semantic:           cluster.NewSemantic(fetcher, cfg.Cluster.SemanticIterations, rnd),
		fetcher:            fetcher,
		cache:              cache,
		defaultK:           cfg.Cluster.DefaultK,
		semanticThreshold:  cfg.Matching.SemanticThreshold,
		maxRecommendations: cfg.Matching.MaxRecommendations,
	}
}

// Cluster groups skills with the requested engine. k <= 0 falls back to the
// configured default, then to the semantic engine's size-based choice.
func (s *SkillService) Cluster(ctx context.Context, mode string, skills []string, hints model.Hints, k int) ([]model.SkillNode, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("mode", mode), zap.Int("skills", len(skills)))
	if k <= 0 {
		k = s.defaultK
	}
	switch mode {
	case "", ModeLexical:
		if k <= 0 {
			k = cluster.DefaultK(len(skills))
		}
		nodes := s.lexical.ClusterWithHints(skills, k, hints)
		logger.Info("skills clustered", zap.Int("k", k))
		return nodes, nil
	case ModeSemantic:
		nodes, err := s.semantic.Cluster(ctx, skills, cluster.SemanticOptions{NumClusters: k, Hints: hints})
		if err != nil {
			logger.Error("semantic clustering failed", zap.Error(err))
			return nil, err
		}
		stats := s.cache.Stats()
		logger.Info("skills clustered",
			zap.Int("requested_k", k),
			zap.Int("cache_size", stats.Size),
			zap.Int64("cache_hits", stats.Hits),
			zap.Int64("cache_misses", stats.Misses),
		)
		return nodes, nil
	default:
		return nil, fmt.Errorf("unknown cluster mode %q: %w", mode, appErr.ErrInvalid)
	}
}

// Highlight annotates nodes against one job, or against all jobs keeping the
// best match per node.
func (s *SkillService) Highlight(ctx context.Context, nodes []model.SkillNode, jobs []model.JobRequirement) []model.HighlightedSkillNode {
	var out []model.HighlightedSkillNode
	if len(jobs) == 1 {
		out = matching.HighlightSkillsForJob(nodes, jobs[0])
	} else {
		out = matching.HighlightSkillsForMultipleJobs(nodes, jobs)
	}
	highlighted := 0
	for _, h := range out {
		if h.Highlighted {
			highlighted++
		}
	}
	logutil.GetLogger(ctx).Debug("skills highlighted",
		zap.Int("nodes", len(nodes)), zap.Int("jobs", len(jobs)), zap.Int("highlighted", highlighted))
	return out
}

func (s *SkillService) Gap(ctx context.Context, userSkills []string, job model.JobRequirement) model.SkillGap {
	gap := matching.CalculateSkillGap(userSkills, job)
	logutil.GetLogger(ctx).Debug("skill gap calculated",
		zap.String("job_id", job.ID), zap.Float64("coverage", gap.CoverageScore))
	return gap
}

func (s *SkillService) Rank(ctx context.Context, userSkills []string, jobs []model.JobRequirement) []model.RankedJob {
	ranked := matching.RankJobsBySkillMatch(userSkills, jobs)
	if len(ranked) > 0 {
		logutil.GetLogger(ctx).Debug("jobs ranked",
			zap.Int("jobs", len(ranked)),
			zap.String("best_job", ranked[0].Job.ID),
			zap.Float64("best_coverage", ranked[0].CoverageScore))
	}
	return ranked
}

// Recommend uses the configured limit when limit <= 0.
func (s *SkillService) Recommend(ctx context.Context, userSkills []string, jobs []model.JobRequirement, limit int) []model.SkillRecommendation {
	if limit <= 0 {
		limit = s.maxRecommendations
	}
	recs := matching.GetRecommendedSkills(userSkills, jobs, limit)
	logutil.GetLogger(ctx).Debug("skills recommended", zap.Int("count", len(recs)))
	return recs
}

// SemanticMatch uses the configured threshold when threshold <= 0.
func (s *SkillService) SemanticMatch(ctx context.Context, userSkills, jobSkills []string, threshold float64) ([]model.SemanticSkillMatch, error) {
	logger := logutil.GetLogger(ctx)
	if threshold <= 0 {
		threshold = s.semanticThreshold
	}
	matches, err := matching.FindSemanticSkillMatches(ctx, s.fetcher, userSkills, jobSkills, threshold)
	if err != nil {
		logger.Error("semantic skill match failed", zap.Error(err))
		return nil, err
	}
	logger.Info("semantic skills matched", zap.Int("matches", len(matches)), zap.Float64("threshold", threshold))
	return matches, nil
}

func (s *SkillService) CacheStats() embedcache.Stats {
	return s.cache.Stats()
}

func (s *SkillService) ResetCache(ctx context.Context) {
	size := s.cache.Len()
	s.cache.Clear()
	logutil.GetLogger(ctx).Info("embedding cache cleared", zap.Int("dropped", size))
}

func (s *SkillService) Cache() *embedcache.Cache {
	return s.cache
}

// UserMessage is the text shown to an end user for any engine failure. The
// underlying error is logged by the caller.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return "could not cluster/match skills; please retry"
}
