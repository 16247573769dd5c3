package job

import (
	"context"

	"github.com/xxxsen/skillmap/internal/service"
)

type EmbeddingCacheResetJob struct {
	skills *service.SkillService
}

func NewEmbeddingCacheResetJob(skills *service.SkillService) *EmbeddingCacheResetJob {
	return &EmbeddingCacheResetJob{skills: skills}
}

func (j *EmbeddingCacheResetJob) Name() string {
	return "embedding_cache_reset"
}

func (j *EmbeddingCacheResetJob) Run(ctx context.Context) error {
	if j.skills == nil {
		return nil
	}
	j.skills.ResetCache(ctx)
	return nil
}
