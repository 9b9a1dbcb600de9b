package dto

import "visiondash/internal/model"

// ReviewListResponse is the backend's page of unreviewed item paths.
type ReviewListResponse struct {
	Images []string `json:"images"`
	Error  string   `json:"error,omitempty"`
}

// PredictionData is a stored prediction for a review item. The backend
// answers with Error set when no prediction exists, which is a normal
// outcome rather than a failure.
type PredictionData struct {
	Image      string            `json:"image"`
	Detections []model.Detection `json:"detections"`
	Timestamp  string            `json:"timestamp,omitempty"`
	Frame      model.FrameKind   `json:"frame,omitempty"`
	Width      int               `json:"width,omitempty"`
	Height     int               `json:"height,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// SubmitReviewRequest carries one review decision to the backend.
type SubmitReviewRequest struct {
	Filename string `json:"filename"`
	Decision string `json:"decision"`
	Label    string `json:"label,omitempty"`
}

// SubmitReviewResponse is the backend's decision-submission status.
type SubmitReviewResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// CorrectionRequest is the UI's corrected-label submission.
type CorrectionRequest struct {
	Label string `json:"label"`
}

// ReviewStateResponse describes the session to the UI after a transition.
type ReviewStateResponse struct {
	State  string `json:"state"`
	Cursor int    `json:"cursor"`
	Total  int    `json:"total"`
	Item   string `json:"item,omitempty"`
}

// ReviewItemView is the current review item resolved for display: the
// annotated image plus whatever stored prediction existed.
type ReviewItemView struct {
	Item           string            `json:"item"`
	Image          string            `json:"image"` // base64 annotated JPEG
	Detections     []model.Detection `json:"detections"`
	Count          int               `json:"count"`
	MeanConfidence float64           `json:"mean_confidence"`
	HasPrediction  bool              `json:"has_prediction"`
}
