package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type IEmbedProvider interface {
	Name() string
	EmbedBatch(ctx context.Context, model string, texts []string) ([][]float32, error)
}

type IEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	ModelName() string
	ProviderName() string
}

type embedder struct {
	provider IEmbedProvider
	model    string
	timeout  time.Duration
}

// NewEmbedder binds a provider to a model. A positive timeout bounds every
// batch request; the provider layer never retries.
func NewEmbedder(p IEmbedProvider, model string, timeout time.Duration) IEmbedder {
	return &embedder{provider: p, model: model, timeout: timeout}
}

func (e *embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	res, err := e.provider.EmbedBatch(ctx, e.model, texts)
	if err != nil {
		return nil, wrapProviderError(e.provider.Name(), err)
	}
	return res, nil
}

func (e *embedder) ModelName() string {
	return e.model
}

func (e *embedder) ProviderName() string {
	return e.provider.Name()
}

// sourcedEmbedder is implemented by embedders that may answer from more than
// one backend and can report which one produced a batch.
type sourcedEmbedder interface {
	primarySource() string
	embedBatchSourced(ctx context.Context, texts []string) ([][]float32, string, error)
}

// Source identifies the backend an embedder prefers. Vectors from different
// sources are not comparable even when their dimensions agree.
func Source(e IEmbedder) string {
	if e == nil {
		return ""
	}
	if s, ok := e.(sourcedEmbedder); ok {
		return s.primarySource()
	}
	return e.ProviderName() + "/" + e.ModelName()
}

// EmbedBatchSourced embeds texts and reports the source that answered.
func EmbedBatchSourced(ctx context.Context, e IEmbedder, texts []string) ([][]float32, string, error) {
	if s, ok := e.(sourcedEmbedder); ok {
		return s.embedBatchSourced(ctx, texts)
	}
	res, err := e.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, "", err
	}
	return res, Source(e), nil
}

type EmbedProviderFactory func(args interface{}) (IEmbedProvider, error)

var embedRegistry = map[string]EmbedProviderFactory{}

func RegisterEmbed(name string, factory EmbedProviderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	embedRegistry[key] = factory
}

func NewEmbedProvider(name string, args interface{}) (IEmbedProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("embed.provider is required")
	}
	factory := embedRegistry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported embed provider: %s", name)
	}
	return factory(args)
}

// ProviderConfig is the argument every registered factory accepts.
type ProviderConfig struct {
	APIKey   string `json:"api_key"`
	BaseURL  string `json:"base_url"`
	TaskType string `json:"task_type"`
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("embed provider config is required")
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode embed provider config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode embed provider config: %w", err)
	}
	return nil
}
