package model

import (
	"encoding/json"
	"fmt"
)

// Box is an axis-aligned bounding box. Coordinates are interpreted in the
// frame the owning DetectionSet declares (normalized or pixel).
type Box struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 {
	return b.X2 - b.X1
}

// Height returns the vertical extent of the box.
func (b Box) Height() float64 {
	return b.Y2 - b.Y1
}

// Valid reports whether the box is non-inverted.
func (b Box) Valid() bool {
	return b.X1 <= b.X2 && b.Y1 <= b.Y2
}

// MarshalJSON encodes the box as the backend's [x1, y1, x2, y2] array form.
func (b Box) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.X1, b.Y1, b.X2, b.Y2})
}

// UnmarshalJSON decodes the backend's [x1, y1, x2, y2] array form.
func (b *Box) UnmarshalJSON(data []byte) error {
	var coords []float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("failed to decode box: %w", err)
	}
	if len(coords) != 4 {
		return fmt.Errorf("box must have 4 coordinates, got %d", len(coords))
	}
	b.X1, b.Y1, b.X2, b.Y2 = coords[0], coords[1], coords[2], coords[3]
	return nil
}

// Detection is one predicted object instance.
type Detection struct {
	Box        Box     `json:"box"`
	Confidence float64 `json:"confidence"`
	Label      string  `json:"class"`
	ClassID    int     `json:"class_id"`
}

// DetectionSet is the ordered list of detections for one image together with
// the coordinate frame the boxes are expressed in. It is immutable once
// received from the backend.
type DetectionSet struct {
	Detections []Detection `json:"detections"`
	FrameKind  FrameKind   `json:"frame"`
	// Analyzed-image pixel size. Only meaningful when FrameKind is
	// FramePixel; zero values mean the backend never reported the size.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// FrameKind names the coordinate convention of a detection set.
type FrameKind string

const (
	// FrameNormalized means box components are fractions of the analyzed
	// image dimensions, each in [0, 1].
	FrameNormalized FrameKind = "normalized"
	// FramePixel means box components are pixel offsets into the analyzed
	// image, whose size must be known.
	FramePixel FrameKind = "pixel"
)

// MeanConfidence returns the average confidence across the set, 0 when empty.
func (s *DetectionSet) MeanConfidence() float64 {
	if s == nil || len(s.Detections) == 0 {
		return 0
	}
	var sum float64
	for _, d := range s.Detections {
		sum += d.Confidence
	}
	return sum / float64(len(s.Detections))
}
