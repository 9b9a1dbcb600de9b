package model

import (
	"encoding/json"
	"math"
	"testing"
)

func TestDetection_UnmarshalBackendPayload(t *testing.T) {
	payload := `{"box":[0.1,0.2,0.6,0.9],"confidence":0.87,"class":"chair","class_id":3}`

	var det Detection
	if err := json.Unmarshal([]byte(payload), &det); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if det.Box.X1 != 0.1 || det.Box.Y1 != 0.2 || det.Box.X2 != 0.6 || det.Box.Y2 != 0.9 {
		t.Errorf("unexpected box: %+v", det.Box)
	}
	if det.Confidence != 0.87 {
		t.Errorf("expected confidence 0.87, got %g", det.Confidence)
	}
	if det.Label != "chair" {
		t.Errorf("expected label 'chair', got %q", det.Label)
	}
	if det.ClassID != 3 {
		t.Errorf("expected class id 3, got %d", det.ClassID)
	}
}

func TestBox_UnmarshalRejectsWrongLength(t *testing.T) {
	tests := []string{`[1,2,3]`, `[1,2,3,4,5]`, `[]`}

	for _, payload := range tests {
		var b Box
		if err := json.Unmarshal([]byte(payload), &b); err == nil {
			t.Errorf("expected error for %s, got none", payload)
		}
	}
}

func TestBox_Valid(t *testing.T) {
	tests := []struct {
		box      Box
		expected bool
	}{
		{Box{X1: 0, Y1: 0, X2: 1, Y2: 1}, true},
		{Box{X1: 5, Y1: 5, X2: 5, Y2: 5}, true},
		{Box{X1: 2, Y1: 0, X2: 1, Y2: 1}, false},
		{Box{X1: 0, Y1: 2, X2: 1, Y2: 1}, false},
	}

	for _, tt := range tests {
		if tt.box.Valid() != tt.expected {
			t.Errorf("Valid(%+v) = %v, expected %v", tt.box, tt.box.Valid(), tt.expected)
		}
	}
}

func TestDetectionSet_MeanConfidence(t *testing.T) {
	empty := &DetectionSet{}
	if empty.MeanConfidence() != 0 {
		t.Errorf("empty set mean should be 0, got %g", empty.MeanConfidence())
	}

	set := &DetectionSet{
		Detections: []Detection{
			{Confidence: 0.5},
			{Confidence: 0.9},
			{Confidence: 0.7},
		},
	}
	if math.Abs(set.MeanConfidence()-0.7) > 1e-9 {
		t.Errorf("expected mean 0.7, got %g", set.MeanConfidence())
	}
}
