package service

import (
	"context"
	"errors"
	"testing"

	"visiondash/internal/config"
	"visiondash/internal/logger"
	"visiondash/internal/model"
)

type fakeReviewBackend struct {
	prediction      *model.DetectionSet
	predictionErr   error
	predictionCalls int
}

func (f *fakeReviewBackend) ListUnreviewed(ctx context.Context, limit int) ([]string, error) {
	return nil, nil
}

func (f *fakeReviewBackend) FetchImage(ctx context.Context, path string) ([]byte, error) {
	return []byte{0xFF, 0xD8}, nil
}

func (f *fakeReviewBackend) FetchPrediction(ctx context.Context, path string) (*model.DetectionSet, error) {
	f.predictionCalls++
	return f.prediction, f.predictionErr
}

func (f *fakeReviewBackend) SubmitDecision(ctx context.Context, path string, decision model.Decision) error {
	return nil
}

type fakePredictionCache struct {
	entries map[string]*model.DetectionSet
	getErr  error
	putErr  error
}

func newFakePredictionCache() *fakePredictionCache {
	return &fakePredictionCache{entries: make(map[string]*model.DetectionSet)}
}

func (c *fakePredictionCache) Put(path string, set *model.DetectionSet) error {
	if c.putErr != nil {
		return c.putErr
	}
	c.entries[path] = set
	return nil
}

func (c *fakePredictionCache) Get(path string) (*model.DetectionSet, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[path], nil
}

func (c *fakePredictionCache) Delete(path string) error {
	delete(c.entries, path)
	return nil
}

func (c *fakePredictionCache) DeleteAll() error {
	c.entries = make(map[string]*model.DetectionSet)
	return nil
}

func cacheTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.NewLogger(&config.Config{LogDirectory: t.TempDir()})
}

func TestCachingBackend_MissFillsCache(t *testing.T) {
	set := &model.DetectionSet{FrameKind: model.FrameNormalized}
	inner := &fakeReviewBackend{prediction: set}
	cache := newFakePredictionCache()
	backend := NewCachingBackend(inner, cache, cacheTestLogger(t))

	got, err := backend.FetchPrediction(context.Background(), "images/a.jpg")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got != set {
		t.Error("expected backend set on a miss")
	}
	if cache.entries["images/a.jpg"] != set {
		t.Error("miss must fill the cache")
	}
	if inner.predictionCalls != 1 {
		t.Errorf("expected 1 backend call, got %d", inner.predictionCalls)
	}
}

func TestCachingBackend_HitSkipsBackend(t *testing.T) {
	cached := &model.DetectionSet{FrameKind: model.FrameNormalized}
	inner := &fakeReviewBackend{}
	cache := newFakePredictionCache()
	cache.entries["images/a.jpg"] = cached
	backend := NewCachingBackend(inner, cache, cacheTestLogger(t))

	got, err := backend.FetchPrediction(context.Background(), "images/a.jpg")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got != cached {
		t.Error("expected the cached set")
	}
	if inner.predictionCalls != 0 {
		t.Errorf("hit must not reach the backend, got %d calls", inner.predictionCalls)
	}
}

func TestCachingBackend_MissingPredictionIsNotCached(t *testing.T) {
	inner := &fakeReviewBackend{prediction: nil}
	cache := newFakePredictionCache()
	backend := NewCachingBackend(inner, cache, cacheTestLogger(t))

	got, err := backend.FetchPrediction(context.Background(), "images/a.jpg")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for a missing prediction, got %+v", got)
	}
	if len(cache.entries) != 0 {
		t.Error("nil results must not be cached")
	}
}

func TestCachingBackend_CacheFailuresDegradeToBackend(t *testing.T) {
	set := &model.DetectionSet{FrameKind: model.FrameNormalized}
	inner := &fakeReviewBackend{prediction: set}
	cache := newFakePredictionCache()
	cache.getErr = errors.New("disk gone")
	cache.putErr = errors.New("disk gone")
	backend := NewCachingBackend(inner, cache, cacheTestLogger(t))

	got, err := backend.FetchPrediction(context.Background(), "images/a.jpg")
	if err != nil {
		t.Fatalf("cache failure must not surface: %v", err)
	}
	if got != set {
		t.Error("expected backend set despite cache failures")
	}
}

func TestCachingBackend_BackendErrorPassesThrough(t *testing.T) {
	inner := &fakeReviewBackend{predictionErr: errors.New("backend down")}
	backend := NewCachingBackend(inner, newFakePredictionCache(), cacheTestLogger(t))

	if _, err := backend.FetchPrediction(context.Background(), "images/a.jpg"); err == nil {
		t.Fatal("expected backend error to pass through")
	}
}
