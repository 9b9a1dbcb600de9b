package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.BackendURL != "http://localhost:7860" {
		t.Errorf("unexpected backend url: %s", cfg.BackendURL)
	}
	if cfg.MaxImageDimension != 640 {
		t.Errorf("expected default max dimension 640, got %d", cfg.MaxImageDimension)
	}
	if cfg.JPEGQuality != 80 {
		t.Errorf("expected default quality 80, got %d", cfg.JPEGQuality)
	}
	if cfg.PreprocessMaxSize != 1<<20 {
		t.Errorf("expected default max size 1 MiB, got %d", cfg.PreprocessMaxSize)
	}
	if cfg.ReferenceWidth != 1000 {
		t.Errorf("expected default reference width 1000, got %d", cfg.ReferenceWidth)
	}
	if cfg.ReviewPageSize != 20 {
		t.Errorf("expected default page size 20, got %d", cfg.ReviewPageSize)
	}
	if cfg.HealthInterval != 30 {
		t.Errorf("expected default health interval 30, got %d", cfg.HealthInterval)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BACKEND_URL", "http://detector:8000")
	t.Setenv("MAX_IMAGE_DIMENSION", "1024")
	t.Setenv("PREPROCESS_MAX_SIZE", "2097152")
	t.Setenv("REVIEW_PAGE_SIZE", "50")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.BackendURL != "http://detector:8000" {
		t.Errorf("unexpected backend url: %s", cfg.BackendURL)
	}
	if cfg.MaxImageDimension != 1024 {
		t.Errorf("expected max dimension 1024, got %d", cfg.MaxImageDimension)
	}
	if cfg.PreprocessMaxSize != 2097152 {
		t.Errorf("expected max size 2097152, got %d", cfg.PreprocessMaxSize)
	}
	if cfg.ReviewPageSize != 50 {
		t.Errorf("expected page size 50, got %d", cfg.ReviewPageSize)
	}
}

func TestLoadIgnoresMalformedInts(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("PREPROCESS_MAX_SIZE", "huge")

	cfg := Load()

	if cfg.Port != 8080 {
		t.Errorf("malformed PORT must fall back to default, got %d", cfg.Port)
	}
	if cfg.PreprocessMaxSize != 1<<20 {
		t.Errorf("malformed PREPROCESS_MAX_SIZE must fall back to default, got %d", cfg.PreprocessMaxSize)
	}
}
