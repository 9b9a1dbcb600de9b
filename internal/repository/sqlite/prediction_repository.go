package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"visiondash/internal/model"
)

// PredictionRepository implements repository.PredictionRepository for SQLite.
// Detections are stored as JSON alongside their frame, never image bytes.
type PredictionRepository struct {
	db *DB
}

// NewPredictionRepository creates a new SQLite prediction repository.
func NewPredictionRepository(db *DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Put stores or replaces the cached detection set for an item.
func (r *PredictionRepository) Put(path string, set *model.DetectionSet) error {
	payload, err := json.Marshal(set.Detections)
	if err != nil {
		return fmt.Errorf("failed to encode detections: %w", err)
	}

	r.db.Lock()
	defer r.db.Unlock()

	_, err = r.db.Conn().Exec(`
		INSERT INTO predictions (item_path, payload, frame, width, height)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(item_path) DO UPDATE SET
			payload = excluded.payload,
			frame = excluded.frame,
			width = excluded.width,
			height = excluded.height
	`, path, string(payload), string(set.FrameKind), set.Width, set.Height)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}
	return nil
}

// Get returns the cached detection set for an item, nil on a cache miss.
func (r *PredictionRepository) Get(path string) (*model.DetectionSet, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var payload, frame string
	var width, height int
	err := r.db.Conn().QueryRow(`
		SELECT payload, frame, width, height FROM predictions WHERE item_path = ?
	`, path).Scan(&payload, &frame, &width, &height)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query prediction: %w", err)
	}

	var detections []model.Detection
	if err := json.Unmarshal([]byte(payload), &detections); err != nil {
		return nil, fmt.Errorf("failed to decode detections: %w", err)
	}

	return &model.DetectionSet{
		Detections: detections,
		FrameKind:  model.FrameKind(frame),
		Width:      width,
		Height:     height,
	}, nil
}

// Delete removes the cached detection set for an item.
func (r *PredictionRepository) Delete(path string) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM predictions WHERE item_path = ?`, path); err != nil {
		return fmt.Errorf("failed to delete prediction: %w", err)
	}
	return nil
}

// DeleteAll clears the cache.
func (r *PredictionRepository) DeleteAll() error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM predictions`); err != nil {
		return fmt.Errorf("failed to delete predictions: %w", err)
	}
	return nil
}
