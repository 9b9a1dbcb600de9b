package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"visiondash/internal/apperr"
	"visiondash/internal/dto"
	"visiondash/internal/model"
)

func TestClient_SubmitImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/predict" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("server failed to parse multipart: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		defer file.Close()
		if header.Filename != "room.jpg" {
			t.Errorf("unexpected filename: %s", header.Filename)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(dto.PredictResponse{
			Filename: "room.jpg",
			Detections: []model.Detection{
				{Box: model.Box{X1: 0.1, Y1: 0.1, X2: 0.5, Y2: 0.5}, Confidence: 0.9, Label: "chair", ClassID: 2},
			},
			Count:  1,
			Width:  640,
			Height: 480,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	set, err := client.SubmitImage(context.Background(), "room.jpg", []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if len(set.Detections) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(set.Detections))
	}
	if set.Detections[0].Label != "chair" {
		t.Errorf("unexpected label: %s", set.Detections[0].Label)
	}
	// omitted frame defaults to normalized
	if set.FrameKind != model.FrameNormalized {
		t.Errorf("expected normalized frame, got %s", set.FrameKind)
	}
	if set.Width != 640 || set.Height != 480 {
		t.Errorf("analyzed-image size not carried: %dx%d", set.Width, set.Height)
	}
}

func TestClient_ListUnreviewed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/list-unverified" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "20" {
			t.Errorf("unexpected limit: %s", r.URL.Query().Get("limit"))
		}
		json.NewEncoder(w).Encode(dto.ReviewListResponse{
			Images: []string{"images/2026-01-10/a.jpg", "images/2026-01-09/b.jpg"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	paths, err := client.ListUnreviewed(context.Background(), 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(paths) != 2 || paths[0] != "images/2026-01-10/a.jpg" {
		t.Errorf("unexpected paths: %v", paths)
	}
}

func TestClient_FetchPredictionNotFoundIsNotAnError(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http 404", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"error body", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(dto.PredictionData{Error: "Prediction not found"})
		}},
	}

	for _, tt := range tests {
		server := httptest.NewServer(tt.handler)
		client := NewClient(server.URL)

		set, err := client.FetchPrediction(context.Background(), "images/x.jpg")
		if err != nil {
			t.Errorf("%s: not-found must not be an error, got %v", tt.name, err)
		}
		if set != nil {
			t.Errorf("%s: expected nil set, got %+v", tt.name, set)
		}
		server.Close()
	}
}

func TestClient_FetchPredictionSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("path") != "images/x.jpg" {
			t.Errorf("unexpected path param: %s", r.URL.Query().Get("path"))
		}
		json.NewEncoder(w).Encode(dto.PredictionData{
			Image: "images/x.jpg",
			Detections: []model.Detection{
				{Box: model.Box{X1: 0, Y1: 0, X2: 1, Y2: 1}, Confidence: 0.6, Label: "person"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	set, err := client.FetchPrediction(context.Background(), "images/x.jpg")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if set == nil || len(set.Detections) != 1 {
		t.Fatalf("unexpected set: %+v", set)
	}
}

func TestClient_SubmitDecision(t *testing.T) {
	var received dto.SubmitReviewRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/submit-review" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		json.NewEncoder(w).Encode(dto.SubmitReviewResponse{Status: "success"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.SubmitDecision(context.Background(), "images/x.jpg", model.Corrected("box"))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if received.Filename != "images/x.jpg" || received.Decision != "correction" || received.Label != "box" {
		t.Errorf("unexpected request: %+v", received)
	}
}

func TestClient_SubmitDecisionRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(dto.SubmitReviewResponse{
			Status:  "error",
			Message: "could not fetch original image",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.SubmitDecision(context.Background(), "images/x.jpg", model.Verified())
	if err == nil {
		t.Fatal("expected error, got none")
	}
	if !apperr.Is(err, apperr.CodeBackend) {
		t.Errorf("expected BackendError, got %v", err)
	}
}

func TestClient_FetchImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{0xFF, 0xD8, 0xFF})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	data, err := client.FetchImage(context.Background(), "images/x.jpg")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(data) != 3 || data[0] != 0xFF {
		t.Errorf("unexpected bytes: %v", data)
	}
}

func TestClient_StatusErrorsAreBackendErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	if _, err := client.ListUnreviewed(context.Background(), 20); !apperr.Is(err, apperr.CodeBackend) {
		t.Errorf("list: expected BackendError, got %v", err)
	}
	if _, err := client.FetchImage(context.Background(), "x"); !apperr.Is(err, apperr.CodeBackend) {
		t.Errorf("image: expected BackendError, got %v", err)
	}
	if err := client.Health(context.Background()); !apperr.Is(err, apperr.CodeBackend) {
		t.Errorf("health: expected BackendError, got %v", err)
	}
}

func TestClient_Health(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "running"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("health failed: %v", err)
	}
}
