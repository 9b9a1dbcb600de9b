// Package geometry implements the coordinate mapping between detection
// frames. Boxes arrive either normalized to the unit square or in pixels of
// the image the detector actually analyzed, and must be converted to pixels
// of the surface being drawn on.
package geometry

import (
	"fmt"

	"visiondash/internal/apperr"
	"visiondash/internal/model"
)

// Frame is a coordinate space boxes are expressed in: the normalized unit
// square, or the pixel grid of a specific width/height.
type Frame struct {
	normalized bool
	width      float64
	height     float64
}

// Normalized returns the unit-square frame.
func Normalized() Frame {
	return Frame{normalized: true}
}

// Pixel returns the pixel frame of a width x height image.
func Pixel(width, height int) Frame {
	return Frame{width: float64(width), height: float64(height)}
}

// IsNormalized reports whether the frame is the unit square.
func (f Frame) IsNormalized() bool {
	return f.normalized
}

// Size returns the pixel dimensions; zero for the normalized frame.
func (f Frame) Size() (width, height float64) {
	return f.width, f.height
}

// Valid reports whether the frame can be used for mapping. A pixel frame
// with unknown dimensions cannot: guessing the analyzed-image size silently
// misplaces every box.
func (f Frame) Valid() bool {
	return f.normalized || (f.width > 0 && f.height > 0)
}

func (f Frame) String() string {
	if f.normalized {
		return "normalized"
	}
	return fmt.Sprintf("pixel(%gx%g)", f.width, f.height)
}

// FrameOf returns the source frame a detection set's boxes are expressed in.
func FrameOf(set *model.DetectionSet) Frame {
	if set.FrameKind == model.FrameNormalized {
		return Normalized()
	}
	return Pixel(set.Width, set.Height)
}

// MapBox converts box from the source frame to the target frame: source
// coordinates are reduced to unit-square fractions, then scaled by the
// target dimensions. The result is clamped to the target bounds. An
// unusable frame yields an UnknownFrameError; an inverted box is rejected.
func MapBox(box model.Box, source, target Frame) (model.Box, error) {
	if !source.Valid() {
		return model.Box{}, apperr.UnknownFrame(
			fmt.Sprintf("source frame %s has unknown dimensions", source))
	}
	if !target.Valid() {
		return model.Box{}, apperr.UnknownFrame(
			fmt.Sprintf("target frame %s has unknown dimensions", target))
	}
	if target.IsNormalized() {
		// Mapping back into the unit square is the inverse direction.
		target = Frame{width: 1, height: 1}
	}

	sw, sh := source.Size()
	if source.IsNormalized() {
		sw, sh = 1, 1
	}

	mapped := model.Box{
		X1: box.X1 / sw * target.width,
		Y1: box.Y1 / sh * target.height,
		X2: box.X2 / sw * target.width,
		Y2: box.Y2 / sh * target.height,
	}

	if !mapped.Valid() {
		return model.Box{}, apperr.Validation(
			fmt.Sprintf("inverted box after mapping: (%g,%g)-(%g,%g)",
				mapped.X1, mapped.Y1, mapped.X2, mapped.Y2))
	}

	mapped.X1 = clamp(mapped.X1, 0, target.width)
	mapped.X2 = clamp(mapped.X2, 0, target.width)
	mapped.Y1 = clamp(mapped.Y1, 0, target.height)
	mapped.Y2 = clamp(mapped.Y2, 0, target.height)

	return mapped, nil
}

// MapSet maps every box in the set onto the target frame, preserving order.
func MapSet(set *model.DetectionSet, target Frame) ([]model.Detection, error) {
	source := FrameOf(set)
	mapped := make([]model.Detection, 0, len(set.Detections))
	for _, det := range set.Detections {
		box, err := MapBox(det.Box, source, target)
		if err != nil {
			return nil, err
		}
		det.Box = box
		mapped = append(mapped, det)
	}
	return mapped, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
