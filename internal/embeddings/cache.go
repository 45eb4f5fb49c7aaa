package embeddings

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// CachingEmbedder wraps an Embedder with a content-addressed in-memory
// cache keyed by a hash of the exact input text. The cache lives for the
// process lifetime and is unbounded unless explicitly cleared.
//
// Two concurrent misses for the same text may both call upstream; the
// results are byte-identical for identical input, so last-write-wins on
// cache population is harmless.
type CachingEmbedder struct {
	inner Embedder

	mu    sync.RWMutex
	cache map[string][]float32
}

// NewCachingEmbedder wraps the given embedder with a text-hash cache.
func NewCachingEmbedder(inner Embedder) *CachingEmbedder {
	return &CachingEmbedder{
		inner: inner,
		cache: make(map[string][]float32),
	}
}

func (c *CachingEmbedder) Name() string    { return c.inner.Name() }
func (c *CachingEmbedder) Dimensions() int { return c.inner.Dimensions() }

// Embed returns cached vectors where available and issues a single
// upstream call for the remaining texts. Input order is preserved.
// Any upstream failure fails the whole batch; the cache is left untouched
// for the texts that missed.
func (c *CachingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([][]float32, len(texts))
	var missTexts []string
	var missIdx []int

	c.mu.RLock()
	for i, text := range texts {
		if vec, ok := c.cache[hashText(text)]; ok {
			results[i] = vec
		} else {
			missTexts = append(missTexts, text)
			missIdx = append(missIdx, i)
		}
	}
	c.mu.RUnlock()

	if len(missTexts) == 0 {
		return results, nil
	}

	fresh, err := c.inner.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	for j, vec := range fresh {
		results[missIdx[j]] = vec
		c.cache[hashText(missTexts[j])] = vec
	}
	c.mu.Unlock()

	return results, nil
}

// EmbedOne embeds a single text, going through the cache.
func (c *CachingEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// CacheSize returns the number of cached embeddings.
func (c *CachingEmbedder) CacheSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// ClearCache drops all cached embeddings.
func (c *CachingEmbedder) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string][]float32)
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
