package imaging

import (
	"bytes"
	"testing"

	"gocv.io/x/gocv"

	"visiondash/internal/apperr"
)

func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	defer mat.Close()

	buf, err := gocv.IMEncode(".jpg", mat)
	if err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data
}

func defaultOptions() Options {
	return Options{MaxDimension: 640, Quality: 80, MaxBytes: 1 << 20}
}

func TestPreprocess_DownsamplesOversizedImage(t *testing.T) {
	img := testJPEG(t, 2000, 1000)

	result, err := Preprocess(img, defaultOptions())
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}

	if !result.Resized {
		t.Error("expected oversized image to be resized")
	}
	if result.Width != 640 {
		t.Errorf("expected width 640, got %d", result.Width)
	}
	// aspect ratio preserved with rounding, 1000 * 640/2000 = 320
	if result.Height != 320 {
		t.Errorf("expected height 320, got %d", result.Height)
	}
}

func TestPreprocess_RoundsDimensions(t *testing.T) {
	// 1333 * 640/1999 = 426.77, rounds up to 427
	img := testJPEG(t, 1999, 1333)

	result, err := Preprocess(img, defaultOptions())
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}
	if result.Width != 640 || result.Height != 427 {
		t.Errorf("expected 640x427, got %dx%d", result.Width, result.Height)
	}
}

func TestPreprocess_SmallImagePassesThrough(t *testing.T) {
	img := testJPEG(t, 320, 240)

	result, err := Preprocess(img, defaultOptions())
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}

	if result.Resized {
		t.Error("in-bounds image must not be resized")
	}
	if !bytes.Equal(result.Data, img) {
		t.Error("in-bounds image bytes must pass through unchanged")
	}
	if result.Width != 320 || result.Height != 240 {
		t.Errorf("expected 320x240, got %dx%d", result.Width, result.Height)
	}
}

func TestPreprocess_IdempotentBelowThreshold(t *testing.T) {
	img := testJPEG(t, 2000, 1500)
	opts := defaultOptions()

	first, err := Preprocess(img, opts)
	if err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	second, err := Preprocess(first.Data, opts)
	if err != nil {
		t.Fatalf("second pass failed: %v", err)
	}

	if second.Resized {
		t.Error("second pass must be a no-op")
	}
	if !bytes.Equal(second.Data, first.Data) {
		t.Error("second pass must return the bytes unchanged")
	}
}

func TestPreprocess_OversizedPayloadReencodes(t *testing.T) {
	img := testJPEG(t, 320, 240)
	opts := defaultOptions()
	opts.MaxBytes = 1 // force the payload branch

	result, err := Preprocess(img, opts)
	if err != nil {
		t.Fatalf("preprocess failed: %v", err)
	}
	if !result.Resized {
		t.Error("oversized payload must be re-encoded")
	}
	// dimensions stay put, only the encoding changes
	if result.Width != 320 || result.Height != 240 {
		t.Errorf("expected 320x240, got %dx%d", result.Width, result.Height)
	}
}

func TestPreprocess_UndecodableBytes(t *testing.T) {
	_, err := Preprocess([]byte("definitely not an image"), defaultOptions())
	if err == nil {
		t.Fatal("expected error for undecodable bytes")
	}
	if !apperr.Is(err, apperr.CodeEncoding) {
		t.Errorf("expected EncodingError, got %v", err)
	}
}

func TestDecode(t *testing.T) {
	img := testJPEG(t, 480, 360)

	width, height, err := Decode(img)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if width != 480 || height != 360 {
		t.Errorf("expected 480x360, got %dx%d", width, height)
	}

	if _, _, err := Decode([]byte("junk")); err == nil {
		t.Error("expected error for undecodable bytes")
	}
}
