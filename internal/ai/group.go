package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type EmbedderEntry struct {
	Name     string
	Embedder IEmbedder
}

// groupEmbedder tries each entry in order and returns the first success.
// All entries should produce vectors of the same dimensionality, otherwise
// a fallback mid-run mixes incomparable vectors.
type groupEmbedder struct {
	items []EmbedderEntry
}

func NewGroupEmbedder(items []EmbedderEntry) IEmbedder {
	if len(items) == 0 {
		return nil
	}
	if len(items) == 1 {
		return items[0].Embedder
	}
	return &groupEmbedder{items: items}
}

func (g *groupEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	res, _, err := g.embedBatchSourced(ctx, texts)
	return res, err
}

func (g *groupEmbedder) embedBatchSourced(ctx context.Context, texts []string) ([][]float32, string, error) {
	var lastErr error
	for i, item := range g.items {
		if item.Embedder == nil {
			continue
		}
		res, source, err := EmbedBatchSourced(ctx, item.Embedder, texts)
		if err == nil {
			return res, source, nil
		}
		lastErr = err
		logutil.GetLogger(ctx).Warn("embedder failed", zap.Int("index", i), zap.String("name", item.Name), zap.Error(err))
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr == nil {
		return nil, "", &ProviderError{Provider: g.ProviderName(), Message: "embedder not configured", Err: ErrUnavailable}
	}
	return nil, "", lastErr
}

func (g *groupEmbedder) primarySource() string {
	for _, item := range g.items {
		if item.Embedder != nil {
			return Source(item.Embedder)
		}
	}
	return ""
}

func (g *groupEmbedder) ModelName() string {
	names := make([]string, 0, len(g.items))
	for _, item := range g.items {
		if item.Embedder == nil {
			continue
		}
		names = append(names, item.Embedder.ModelName())
	}
	return strings.Join(names, "|")
}

func (g *groupEmbedder) ProviderName() string {
	names := make([]string, 0, len(g.items))
	for _, item := range g.items {
		if item.Name == "" {
			continue
		}
		names = append(names, item.Name)
	}
	return strings.Join(names, "|")
}

// Describe renders the entry list for logs.
func Describe(items []EmbedderEntry) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		model := ""
		if item.Embedder != nil {
			model = item.Embedder.ModelName()
		}
		parts = append(parts, fmt.Sprintf("%s(%s)", item.Name, model))
	}
	return strings.Join(parts, ",")
}
