package model

import "time"

// DecisionKind is the human outcome for a review item.
type DecisionKind string

const (
	DecisionVerified  DecisionKind = "verified"
	DecisionCorrected DecisionKind = "correction"
)

// Decision is a tagged review outcome. Label is set only for corrections.
type Decision struct {
	Kind  DecisionKind `json:"decision"`
	Label string       `json:"label,omitempty"`
}

// Verified returns the verified decision.
func Verified() Decision {
	return Decision{Kind: DecisionVerified}
}

// Corrected returns a correction decision carrying the replacement label.
func Corrected(label string) Decision {
	return Decision{Kind: DecisionCorrected, Label: label}
}

// ReviewItem identifies an image stored by the backend, not file content.
type ReviewItem struct {
	Path     string    `json:"path"`
	Decision *Decision `json:"decision,omitempty"`
}

// DecisionRecord is a journaled review decision.
type DecisionRecord struct {
	ID        int64        `json:"id"`
	ItemPath  string       `json:"item_path"`
	Kind      DecisionKind `json:"decision"`
	Label     string       `json:"label,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
