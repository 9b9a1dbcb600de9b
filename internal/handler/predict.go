package handler

import (
	"io"
	"net/http"

	"visiondash/internal/logger"
	"visiondash/internal/service"
)

const maxUploadBytes = 32 << 20

// PredictHandler accepts one image upload, runs it through the detection
// pipeline and returns the annotated image with detections and stats.
func PredictHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "Invalid multipart form", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "Image file required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, "Failed to read upload", http.StatusBadRequest)
			return
		}

		result, err := manager.Analyze(r.Context(), header.Filename, data)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		writeJSON(w, logger, result)
	}
}
