// Package imaging bounds upload payloads before they reach the detector.
package imaging

import (
	"image"
	"math"

	"gocv.io/x/gocv"

	"visiondash/internal/apperr"
)

// Options controls preprocessing. MaxDimension is the detector's native
// input size and a configuration value, not a constant.
type Options struct {
	MaxDimension int
	Quality      int   // JPEG quality for re-encoded output
	MaxBytes     int64 // Payloads at or below this size skip re-encoding
}

// Result is a preprocessed image together with its pixel dimensions. The
// dimensions double as the analyzed-image frame when the processed bytes are
// what gets submitted to the detector.
type Result struct {
	Data    []byte
	Width   int
	Height  int
	Resized bool
}

// Preprocess downsamples and re-encodes an image when its longer dimension
// exceeds opts.MaxDimension or its payload exceeds opts.MaxBytes. Images
// already within both bounds are returned unchanged, so the operation is
// idempotent once below threshold. Aspect ratio is preserved exactly;
// output dimensions are rounded, not truncated. The caller's bytes are
// never mutated.
func Preprocess(data []byte, opts Options) (*Result, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, apperr.Encoding("failed to decode image", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, apperr.Encoding("decoded image is empty", nil)
	}

	width := mat.Cols()
	height := mat.Rows()
	longer := width
	if height > longer {
		longer = height
	}

	if longer <= opts.MaxDimension && int64(len(data)) <= opts.MaxBytes {
		return &Result{Data: data, Width: width, Height: height}, nil
	}

	factor := float64(opts.MaxDimension) / float64(longer)
	if factor > 1 {
		// Oversized payload on an already-small image: re-encode only.
		factor = 1
	}
	newWidth := int(math.Round(float64(width) * factor))
	newHeight := int(math.Round(float64(height) * factor))

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mat, &resized, image.Pt(newWidth, newHeight), 0, 0, gocv.InterpolationArea)

	if resized.Empty() {
		return nil, apperr.Encoding("resize produced an empty image", nil)
	}

	buf, err := gocv.IMEncodeWithParams(".jpg", resized, []int{gocv.IMWriteJpegQuality, opts.Quality})
	if err != nil {
		return nil, apperr.Encoding("failed to encode image", err)
	}
	defer buf.Close()

	encoded := make([]byte, len(buf.GetBytes()))
	copy(encoded, buf.GetBytes())

	return &Result{Data: encoded, Width: newWidth, Height: newHeight, Resized: true}, nil
}

// Decode returns the pixel dimensions of an encoded image.
func Decode(data []byte) (width, height int, err error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return 0, 0, apperr.Encoding("failed to decode image", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return 0, 0, apperr.Encoding("decoded image is empty", nil)
	}
	return mat.Cols(), mat.Rows(), nil
}
