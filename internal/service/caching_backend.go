package service

import (
	"context"

	"visiondash/internal/logger"
	"visiondash/internal/model"
	"visiondash/internal/repository"
	"visiondash/internal/review"
)

// CachingBackend wraps a review backend with a local prediction cache, so
// re-viewing an item does not re-fetch its stored detections. Only the
// prediction call is cached; everything else delegates.
type CachingBackend struct {
	inner  review.Backend
	cache  repository.PredictionRepository
	logger *logger.Logger
}

func NewCachingBackend(inner review.Backend, cache repository.PredictionRepository, logger *logger.Logger) *CachingBackend {
	return &CachingBackend{inner: inner, cache: cache, logger: logger}
}

func (b *CachingBackend) ListUnreviewed(ctx context.Context, limit int) ([]string, error) {
	return b.inner.ListUnreviewed(ctx, limit)
}

func (b *CachingBackend) FetchImage(ctx context.Context, path string) ([]byte, error) {
	return b.inner.FetchImage(ctx, path)
}

// FetchPrediction is cache-aside: a hit skips the backend, a miss fetches
// and fills the cache. Cache failures only degrade to a backend fetch.
func (b *CachingBackend) FetchPrediction(ctx context.Context, path string) (*model.DetectionSet, error) {
	cached, err := b.cache.Get(path)
	if err != nil {
		b.logger.Warning("Prediction cache read for %s failed: %v", path, err)
	} else if cached != nil {
		return cached, nil
	}

	set, err := b.inner.FetchPrediction(ctx, path)
	if err != nil {
		return nil, err
	}
	if set != nil {
		if err := b.cache.Put(path, set); err != nil {
			b.logger.Warning("Prediction cache write for %s failed: %v", path, err)
		}
	}
	return set, nil
}

func (b *CachingBackend) SubmitDecision(ctx context.Context, path string, decision model.Decision) error {
	return b.inner.SubmitDecision(ctx, path, decision)
}
