package repository

import (
	"visiondash/internal/model"
)

// DecisionRepository journals successfully submitted review decisions.
type DecisionRepository interface {
	// Create operations
	Insert(rec *model.DecisionRecord) (int64, error)

	// Read operations
	GetAll(limit int) ([]model.DecisionRecord, error)
	GetByItemPath(path string) (*model.DecisionRecord, error)
	CountByKind() (map[model.DecisionKind]int, error)

	// Delete operations
	DeleteAll() error
}

// PredictionRepository caches detection sets fetched for review items, so
// re-viewing an item does not re-fetch from the backend.
type PredictionRepository interface {
	Put(path string, set *model.DetectionSet) error
	Get(path string) (*model.DetectionSet, error)
	Delete(path string) error
	DeleteAll() error
}
