package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"visiondash/internal/model"
)

// DecisionRepository implements repository.DecisionRepository for SQLite.
type DecisionRepository struct {
	db *DB
}

// NewDecisionRepository creates a new SQLite decision repository.
func NewDecisionRepository(db *DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

// Insert journals a submitted decision.
func (r *DecisionRepository) Insert(rec *model.DecisionRecord) (int64, error) {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().Exec(`
		INSERT INTO decisions (item_path, decision, label)
		VALUES (?, ?, ?)
	`, rec.ItemPath, string(rec.Kind), rec.Label)
	if err != nil {
		return 0, fmt.Errorf("failed to insert decision: %w", err)
	}

	return result.LastInsertId()
}

// GetAll returns the most recent decisions, newest first.
func (r *DecisionRepository) GetAll(limit int) ([]model.DecisionRecord, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT id, item_path, decision, label, created_at
		FROM decisions ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	var records []model.DecisionRecord
	for rows.Next() {
		var rec model.DecisionRecord
		var kind string
		if err := rows.Scan(&rec.ID, &rec.ItemPath, &kind, &rec.Label, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		rec.Kind = model.DecisionKind(kind)
		records = append(records, rec)
	}

	return records, nil
}

// GetByItemPath returns the latest decision for an item, nil when none exists.
func (r *DecisionRepository) GetByItemPath(path string) (*model.DecisionRecord, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var rec model.DecisionRecord
	var kind string
	err := r.db.Conn().QueryRow(`
		SELECT id, item_path, decision, label, created_at
		FROM decisions WHERE item_path = ? ORDER BY id DESC LIMIT 1
	`, path).Scan(&rec.ID, &rec.ItemPath, &kind, &rec.Label, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query decision: %w", err)
	}

	rec.Kind = model.DecisionKind(kind)
	return &rec, nil
}

// CountByKind returns decision counts grouped by kind.
func (r *DecisionRepository) CountByKind() (map[model.DecisionKind]int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`SELECT decision, COUNT(*) FROM decisions GROUP BY decision`)
	if err != nil {
		return nil, fmt.Errorf("failed to count decisions: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.DecisionKind]int)
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan decision count: %w", err)
		}
		counts[model.DecisionKind(kind)] = count
	}

	return counts, nil
}

// DeleteAll clears the journal.
func (r *DecisionRepository) DeleteAll() error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM decisions`); err != nil {
		return fmt.Errorf("failed to delete decisions: %w", err)
	}
	return nil
}
