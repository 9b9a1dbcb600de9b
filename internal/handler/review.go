package handler

import (
	"encoding/json"
	"net/http"

	"visiondash/internal/dto"
	"visiondash/internal/logger"
	"visiondash/internal/review"
	"visiondash/internal/service"
)

func snapshotResponse(snap review.Snapshot) dto.ReviewStateResponse {
	return dto.ReviewStateResponse{
		State:  snap.State.String(),
		Cursor: snap.Cursor,
		Total:  snap.Total,
		Item:   snap.Item,
	}
}

// ActivateReviewHandler starts a fresh review session: any prior queue and
// cursor are discarded.
func ActivateReviewHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if err := manager.Session().Activate(r.Context()); err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, snapshotResponse(manager.Session().Snapshot()))
	}
}

// CurrentReviewHandler resolves the current item: annotated image plus any
// stored prediction.
func CurrentReviewHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := manager.ReviewView(r.Context())
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, view)
	}
}

// VerifyReviewHandler records the verified decision for the current item
// and advances the cursor.
func VerifyReviewHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if err := manager.Session().Verify(r.Context()); err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, snapshotResponse(manager.Session().Snapshot()))
	}
}

// FlagReviewHandler flags the current item as incorrect, revealing the
// correction input. No backend contact happens yet.
func FlagReviewHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if err := manager.Session().FlagIncorrect(); err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, snapshotResponse(manager.Session().Snapshot()))
	}
}

// CorrectionReviewHandler submits the corrected label for the current item
// and advances the cursor.
func CorrectionReviewHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req dto.CorrectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := manager.Session().SubmitCorrection(r.Context(), req.Label); err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, snapshotResponse(manager.Session().Snapshot()))
	}
}

// SkipReviewHandler advances past the current item without recording a
// decision.
func SkipReviewHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if err := manager.Session().Next(); err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, snapshotResponse(manager.Session().Snapshot()))
	}
}

// DecisionsHandler lists the most recent journaled decisions.
func DecisionsHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := atoiDefault(r.URL.Query().Get("limit"), 50)

		records, err := manager.Decisions(limit)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, records)
	}
}
