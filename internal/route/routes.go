package route

import (
	"net/http"
	"os"
	"path/filepath"

	"visiondash/internal/config"
	"visiondash/internal/handler"
	"visiondash/internal/logger"
	"visiondash/internal/middleware"
	"visiondash/internal/service"
	"visiondash/internal/websocket"
)

// dynamicHTMLHandler serves /path as /<static>/path.html if the file exists;
// otherwise 404.
func dynamicHTMLHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path == "/" {
			path = "/index"
		}

		filePath := filepath.Join(staticDir, path+".html")

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, filePath)
	}
}

// SetupRoutes registers HTTP routes, static file serving, API endpoints,
// and wraps the mux with the CORS middleware.
func SetupRoutes(manager *service.Manager, cfg *config.Config, logger *logger.Logger,
	hub *websocket.HubService, monitor *service.HealthMonitor) http.Handler {
	mux := http.NewServeMux()

	// Static files for the UI shell
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDirectory))))

	// Dashboard path
	mux.HandleFunc("/api/predict", handler.PredictHandler(manager, logger))

	// Review path
	mux.HandleFunc("/api/review/activate", handler.ActivateReviewHandler(manager, logger))
	mux.HandleFunc("/api/review/current", handler.CurrentReviewHandler(manager, logger))
	mux.HandleFunc("/api/review/verify", handler.VerifyReviewHandler(manager, logger))
	mux.HandleFunc("/api/review/flag", handler.FlagReviewHandler(manager, logger))
	mux.HandleFunc("/api/review/correction", handler.CorrectionReviewHandler(manager, logger))
	mux.HandleFunc("/api/review/next", handler.SkipReviewHandler(manager, logger))
	mux.HandleFunc("/api/review/decisions", handler.DecisionsHandler(manager, logger))

	// Status indicator
	mux.HandleFunc("/api/health", handler.HealthHandler(monitor, logger))
	mux.HandleFunc("/api/status", handler.StatusWebsocketHandler(hub, logger))

	// Log endpoints
	mux.HandleFunc("/logs/info", handler.ShowInfoLogsHandler(cfg))
	mux.HandleFunc("/logs/warning", handler.ShowWarningLogsHandler(cfg))
	mux.HandleFunc("/logs/error", handler.ShowErrorLogsHandler(cfg))

	mux.HandleFunc("/logs/info/clear", handler.ClearInfoLogsHandler(logger))
	mux.HandleFunc("/logs/warning/clear", handler.ClearWarningLogsHandler(logger))
	mux.HandleFunc("/logs/error/clear", handler.ClearErrorLogsHandler(logger))

	// Automatic HTML handler mapping for example: /review -> static/review.html
	mux.HandleFunc("/", dynamicHTMLHandler(cfg.StaticDirectory))

	// Apply middleware
	return middleware.CORSMiddleware(mux)
}
