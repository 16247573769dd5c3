package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/skillmap/internal/ai"
	"github.com/xxxsen/skillmap/internal/config"
)

// BuildEmbedder creates the primary embedder followed by the configured
// fallbacks. Entries without an API key or with an unknown provider are
// skipped with a warning. An error is returned only when none remain.
func BuildEmbedder(ctx context.Context, cfg config.EmbedConfig) (ai.IEmbedder, error) {
	logger := logutil.GetLogger(ctx)
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	specs := make([]config.FallbackEmbed, 0, len(cfg.Fallbacks)+1)
	specs = append(specs, config.FallbackEmbed{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		TaskType: cfg.TaskType,
	})
	specs = append(specs, cfg.Fallbacks...)

	entries := make([]ai.EmbedderEntry, 0, len(specs))
	var firstErr error
	for _, spec := range specs {
		if spec.APIKey == "" {
			logger.Warn("embed provider skipped: no api key",
				zap.String("provider", spec.Provider), zap.String("model", spec.Model))
			if firstErr == nil {
				firstErr = ai.ErrUnavailable
			}
			continue
		}
		provider, err := ai.NewEmbedProvider(spec.Provider, ai.ProviderConfig{
			APIKey:   spec.APIKey,
			BaseURL:  spec.BaseURL,
			TaskType: spec.TaskType,
		})
		if err != nil {
			logger.Warn("embed provider skipped",
				zap.String("provider", spec.Provider), zap.String("model", spec.Model), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		entries = append(entries, ai.EmbedderEntry{
			Name:     spec.Provider,
			Embedder: ai.NewEmbedder(provider, spec.Model, timeout),
		})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no usable embed provider: %w", firstErr)
	}
	logger.Info("embedder ready", zap.String("chain", ai.Describe(entries)))
	return ai.NewGroupEmbedder(entries), nil
}
