package service

import (
	"context"
	"encoding/base64"

	"visiondash/internal/backend"
	"visiondash/internal/config"
	"visiondash/internal/dto"
	"visiondash/internal/geometry"
	"visiondash/internal/imaging"
	"visiondash/internal/logger"
	"visiondash/internal/model"
	"visiondash/internal/overlay"
	"visiondash/internal/repository"
	"visiondash/internal/review"
)

// Manager orchestrates the two paths that share the mapping engine and the
// renderer: the dashboard path (upload, detect, overlay) and the review
// path (queue, inspect, decide).
type Manager struct {
	cfg       *config.Config
	logger    *logger.Logger
	backend   *backend.Client
	renderer  *overlay.Renderer
	session   *review.Session
	decisions repository.DecisionRepository
}

func NewManager(cfg *config.Config, logger *logger.Logger, backendClient *backend.Client,
	renderer *overlay.Renderer, session *review.Session, decisions repository.DecisionRepository) *Manager {
	return &Manager{
		cfg:       cfg,
		logger:    logger,
		backend:   backendClient,
		renderer:  renderer,
		session:   session,
		decisions: decisions,
	}
}

// Analyze runs the dashboard path for one uploaded image: preprocess,
// submit, map the returned boxes onto the processed image, render. The
// render surface is the exact image that was analyzed, which removes any
// ambiguity between analyzed and displayed frames.
func (m *Manager) Analyze(ctx context.Context, filename string, data []byte) (*dto.AnalyzeResult, error) {
	processed, err := imaging.Preprocess(data, imaging.Options{
		MaxDimension: m.cfg.MaxImageDimension,
		Quality:      m.cfg.JPEGQuality,
		MaxBytes:     m.cfg.PreprocessMaxSize,
	})
	if err != nil {
		return nil, err
	}
	if processed.Resized {
		m.logger.Info("Preprocessed %s to %dx%d (%d bytes)", filename, processed.Width, processed.Height, len(processed.Data))
	}

	set, err := m.backend.SubmitImage(ctx, filename, processed.Data)
	if err != nil {
		return nil, err
	}

	surface := geometry.Pixel(processed.Width, processed.Height)
	mapped, err := geometry.MapSet(set, surface)
	if err != nil {
		return nil, err
	}

	annotated, stats, err := m.renderer.Render(processed.Data, mapped)
	if err != nil {
		return nil, err
	}

	return &dto.AnalyzeResult{
		Filename:       filename,
		Detections:     mapped,
		Count:          stats.Count,
		MeanConfidence: stats.MeanConfidence,
		Image:          base64.StdEncoding.EncodeToString(annotated),
		Width:          processed.Width,
		Height:         processed.Height,
		Resized:        processed.Resized,
	}, nil
}

// Session exposes the review session for handlers.
func (m *Manager) Session() *review.Session {
	return m.session
}

// ReviewView resolves the current review item for display: image bytes,
// stored prediction mapped onto the image's own pixel frame, annotated
// overlay. An item without a stored prediction renders with no overlay.
func (m *Manager) ReviewView(ctx context.Context) (*dto.ReviewItemView, error) {
	view, err := m.session.LoadCurrent(ctx)
	if err != nil {
		return nil, err
	}

	var mapped []model.Detection
	if view.Prediction != nil {
		width, height, err := imaging.Decode(view.Image)
		if err != nil {
			return nil, err
		}
		mapped, err = geometry.MapSet(view.Prediction, geometry.Pixel(width, height))
		if err != nil {
			// Misaligned boxes are worse than no boxes: block rendering.
			return nil, err
		}
	}

	annotated, stats, err := m.renderer.Render(view.Image, mapped)
	if err != nil {
		return nil, err
	}

	return &dto.ReviewItemView{
		Item:           view.Item.Path,
		Image:          base64.StdEncoding.EncodeToString(annotated),
		Detections:     mapped,
		Count:          stats.Count,
		MeanConfidence: stats.MeanConfidence,
		HasPrediction:  view.Prediction != nil,
	}, nil
}

// Decisions returns the most recent journaled decisions.
func (m *Manager) Decisions(limit int) ([]model.DecisionRecord, error) {
	return m.decisions.GetAll(limit)
}

// HealthCheck probes the backend once.
func (m *Manager) HealthCheck(ctx context.Context) error {
	return m.backend.Health(ctx)
}
