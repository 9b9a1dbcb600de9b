package dto

import "visiondash/internal/model"

// PredictResponse is the detection backend's reply to an image submission.
// Width/Height are the pixel dimensions of the image the backend analyzed;
// they are required to interpret pixel-frame boxes and a correct backend
// always reports them.
type PredictResponse struct {
	Filename   string            `json:"filename"`
	Detections []model.Detection `json:"detections"`
	Count      int               `json:"count"`
	Frame      model.FrameKind   `json:"frame,omitempty"`
	Width      int               `json:"width,omitempty"`
	Height     int               `json:"height,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// AnalyzeResult is the dashboard response for one upload: detections mapped
// onto the processed image, the annotated image, and aggregate read-outs.
type AnalyzeResult struct {
	Filename       string            `json:"filename"`
	Detections     []model.Detection `json:"detections"`
	Count          int               `json:"count"`
	MeanConfidence float64           `json:"mean_confidence"`
	Image          string            `json:"image"` // base64 annotated JPEG
	Width          int               `json:"width"`
	Height         int               `json:"height"`
	Resized        bool              `json:"resized"`
}
