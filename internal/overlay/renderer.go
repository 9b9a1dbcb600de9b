// Package overlay draws detection boxes and labels onto an image. Input
// boxes must already be mapped to the pixel frame of the image being drawn
// on; the renderer does no coordinate conversion of its own.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"visiondash/internal/apperr"
	"visiondash/internal/model"
)

var labelTextColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Stats are the aggregate read-outs of one render call.
type Stats struct {
	Count          int     `json:"count"`
	MeanConfidence float64 `json:"mean_confidence"`
}

// Renderer draws detection overlays. Stroke width, font size and padding
// scale with surface resolution relative to ReferenceWidth so labels stay
// legible on large images.
type Renderer struct {
	ReferenceWidth int
	Colors         ColorPolicy
}

// NewRenderer returns a Renderer with the deterministic hash palette.
func NewRenderer(referenceWidth int) *Renderer {
	return &Renderer{
		ReferenceWidth: referenceWidth,
		Colors:         NewHashPalette(),
	}
}

// Render decodes the image, draws every detection in input order (later
// entries on top) and returns the annotated JPEG plus aggregate stats. Each
// call starts from the clean source image, so overlays never accumulate.
func (r *Renderer) Render(img []byte, detections []model.Detection) ([]byte, Stats, error) {
	mat, err := gocv.IMDecode(img, gocv.IMReadColor)
	if err != nil {
		return nil, Stats{}, apperr.Encoding("failed to decode image", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, Stats{}, apperr.Encoding("decoded image is empty", nil)
	}

	surfaceWidth := mat.Cols()
	scale := float64(surfaceWidth) / float64(r.ReferenceWidth)
	if scale < 1 {
		scale = 1
	}
	thickness := int(math.Round(2 * scale))
	textThickness := int(math.Max(1, math.Round(scale)))
	fontScale := 0.5 * scale
	pad := int(math.Round(4 * scale))

	for _, det := range detections {
		col := r.Colors.ColorFor(det.Label, det.ClassID)

		x1 := int(math.Round(det.Box.X1))
		y1 := int(math.Round(det.Box.Y1))
		x2 := int(math.Round(det.Box.X2))
		y2 := int(math.Round(det.Box.Y2))

		rect := image.Rect(x1, y1, x2, y2)
		if err := gocv.Rectangle(&mat, rect, col, thickness); err != nil {
			return nil, Stats{}, fmt.Errorf("failed to draw rectangle: %w", err)
		}

		text := fmt.Sprintf("%s %.2f", det.Label, det.Confidence)
		textSize := gocv.GetTextSize(text, gocv.FontHersheySimplex, fontScale, textThickness)
		labelHeight := textSize.Y + 2*pad

		// Label sits above the box; near the top edge it would clip off
		// the surface, so flip it inside the box instead.
		labelY := y1 - labelHeight
		if labelY < 0 {
			labelY = y1
		}

		bg := image.Rect(x1, labelY, x1+textSize.X+2*pad, labelY+labelHeight)
		if err := gocv.Rectangle(&mat, bg, col, -1); err != nil {
			return nil, Stats{}, fmt.Errorf("failed to draw label background: %w", err)
		}

		origin := image.Pt(x1+pad, labelY+labelHeight-pad)
		if err := gocv.PutText(&mat, text, origin, gocv.FontHersheySimplex, fontScale, labelTextColor, textThickness); err != nil {
			return nil, Stats{}, fmt.Errorf("failed to draw label text: %w", err)
		}
	}

	buf, err := gocv.IMEncode(".jpg", mat)
	if err != nil {
		return nil, Stats{}, apperr.Encoding("failed to encode annotated image", err)
	}
	defer buf.Close()
	annotated := make([]byte, len(buf.GetBytes()))
	copy(annotated, buf.GetBytes())

	return annotated, computeStats(detections), nil
}

// computeStats aggregates once per render call, not per box.
func computeStats(detections []model.Detection) Stats {
	stats := Stats{Count: len(detections)}
	if stats.Count == 0 {
		return stats
	}
	var sum float64
	for _, det := range detections {
		sum += det.Confidence
	}
	stats.MeanConfidence = sum / float64(stats.Count)
	return stats
}
