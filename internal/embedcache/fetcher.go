package embedcache

import (
	"context"
	"fmt"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/xxxsen/skillmap/internal/ai"
)

const DefaultBatchSize = 100

type FetcherConfig struct {
	BatchSize         int
	Concurrency       int
	RequestsPerSecond float64
}

// Fetcher resolves skill embeddings through the cache, requesting only the
// misses from the embedder in batches.
type Fetcher struct {
	embedder ai.IEmbedder
	cache    *Cache
	cfg      FetcherConfig
	limiter  *rate.Limiter
}

func NewFetcher(embedder ai.IEmbedder, cache *Cache, cfg FetcherConfig) *Fetcher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &Fetcher{embedder: embedder, cache: cache, cfg: cfg, limiter: limiter}
}

// Embed returns one embedding per skill in input order. Batches that succeed
// stay cached even if a later batch fails. Every returned vector comes from
// the same source: cached entries from another source are refetched, and if
// a fallback answered part of the request the rest is refetched from it.
func (f *Fetcher) Embed(ctx context.Context, skills []string) ([][]float32, error) {
	if len(skills) == 0 {
		return nil, nil
	}
	want := ai.Source(f.embedder)
	for round := 0; ; round++ {
		resolved, answered, err := f.resolve(ctx, skills, want)
		if err != nil {
			return nil, err
		}
		if singleSource(resolved) || round > 0 {
			return f.assemble(skills, resolved)
		}
		logutil.GetLogger(ctx).Info("embedding source changed, refetching",
			zap.String("want", want),
			zap.String("answered", answered),
		)
		want = answered
	}
}

type resolvedEmbedding struct {
	source string
	vector []float32
}

// resolve fills every skill from the cache entries produced by want and
// fetches the rest. It reports the source of the last fetched batch, or ""
// when nothing was fetched.
func (f *Fetcher) resolve(ctx context.Context, skills []string, want string) (map[string]resolvedEmbedding, string, error) {
	resolved := make(map[string]resolvedEmbedding, len(skills))
	var missing []string
	for _, skill := range skills {
		key := Key(skill)
		if _, seen := resolved[key]; seen {
			continue
		}
		if v, ok := f.cache.Get(skill, want); ok {
			resolved[key] = resolvedEmbedding{source: want, vector: v}
			continue
		}
		resolved[key] = resolvedEmbedding{}
		missing = append(missing, skill)
	}
	if len(missing) == 0 {
		return resolved, "", nil
	}
	logutil.GetLogger(ctx).Debug("embedding cache miss",
		zap.Int("skills", len(skills)),
		zap.Int("missing", len(missing)),
	)
	if f.embedder == nil {
		return nil, "", &ai.ProviderError{Provider: f.providerName(), Message: "embedder not configured", Err: ai.ErrUnavailable}
	}
	answered, err := f.fetch(ctx, missing, resolved)
	if err != nil {
		return nil, "", err
	}
	return resolved, answered, nil
}

func singleSource(resolved map[string]resolvedEmbedding) bool {
	first := true
	var source string
	for _, r := range resolved {
		if first {
			source, first = r.source, false
			continue
		}
		if r.source != source {
			return false
		}
	}
	return true
}

func (f *Fetcher) assemble(skills []string, resolved map[string]resolvedEmbedding) ([][]float32, error) {
	out := make([][]float32, len(skills))
	dim := -1
	source := ""
	for i, skill := range skills {
		r := resolved[Key(skill)]
		if len(r.vector) == 0 {
			return nil, ai.NewProviderError(f.providerName(), fmt.Errorf("no embedding for %q", skill))
		}
		if i > 0 && r.source != source {
			return nil, ai.NewProviderError(f.providerName(), fmt.Errorf("embedding source mismatch: %s vs %s", r.source, source))
		}
		if dim >= 0 && len(r.vector) != dim {
			return nil, ai.NewProviderError(f.providerName(), fmt.Errorf("embedding dimension mismatch: %d vs %d", len(r.vector), dim))
		}
		dim = len(r.vector)
		source = r.source
		out[i] = cloneEmbedding(r.vector)
	}
	return out, nil
}

func (f *Fetcher) fetch(ctx context.Context, missing []string, resolved map[string]resolvedEmbedding) (string, error) {
	var mu sync.Mutex
	var answered string
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.cfg.Concurrency)
	for start := 0; start < len(missing); start += f.cfg.BatchSize {
		end := start + f.cfg.BatchSize
		if end > len(missing) {
			end = len(missing)
		}
		batch := missing[start:end]
		g.Go(func() error {
			if err := f.limiter.Wait(gctx); err != nil {
				return ai.NewProviderError(f.providerName(), err)
			}
			vecs, source, err := ai.EmbedBatchSourced(gctx, f.embedder, batch)
			if err != nil {
				return ai.NewProviderError(f.providerName(), err)
			}
			if len(vecs) != len(batch) {
				return ai.NewProviderError(f.providerName(),
					fmt.Errorf("got %d embeddings for batch of %d", len(vecs), len(batch)))
			}
			mu.Lock()
			defer mu.Unlock()
			for i, skill := range batch {
				f.cache.Set(skill, source, vecs[i])
				resolved[Key(skill)] = resolvedEmbedding{source: source, vector: vecs[i]}
			}
			answered = source
			return nil
		})
	}
	return answered, g.Wait()
}

func (f *Fetcher) providerName() string {
	if f.embedder == nil {
		return "none"
	}
	return f.embedder.ProviderName()
}
