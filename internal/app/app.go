package app

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"visiondash/internal/backend"
	"visiondash/internal/config"
	"visiondash/internal/logger"
	"visiondash/internal/overlay"
	"visiondash/internal/repository/sqlite"
	"visiondash/internal/review"
	"visiondash/internal/route"
	"visiondash/internal/service"
	"visiondash/internal/websocket"
)

type App struct {
	config  *config.Config
	logger  *logger.Logger
	db      *sqlite.DB
	manager *service.Manager
	hub     *websocket.HubService
	monitor *service.HealthMonitor
}

func NewApp() (*App, error) {
	cfg := config.Load()
	log := logger.NewLogger(cfg)

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open review database: %w", err)
	}

	decisionRepo := sqlite.NewDecisionRepository(db)
	predictionRepo := sqlite.NewPredictionRepository(db)

	backendClient := backend.NewClient(cfg.BackendURL)
	renderer := overlay.NewRenderer(cfg.ReferenceWidth)
	hub := websocket.NewHubService(log)
	monitor := service.NewHealthMonitor(backendClient, hub, log)

	cached := service.NewCachingBackend(backendClient, predictionRepo, log)
	session := review.NewSession(cached, decisionRepo, cfg.ReviewPageSize, log)

	manager := service.NewManager(cfg, log, backendClient, renderer, session, decisionRepo)

	return &App{
		config:  cfg,
		logger:  log,
		db:      db,
		manager: manager,
		hub:     hub,
		monitor: monitor,
	}, nil
}

func (a *App) Run() error {
	defer a.db.Close()

	// Start background services
	go a.hub.Run()
	go a.monitor.Run(a.config.HealthInterval)

	// Setup routes
	router := route.SetupRoutes(a.manager, a.config, a.logger, a.hub, a.monitor)

	fmt.Printf("🚀 Vision Review Dashboard\n")
	fmt.Printf("📍 URL: http://localhost:%d\n", a.config.Port)
	fmt.Printf("🤖 Backend: %s\n", a.config.BackendURL)
	fmt.Printf("🗄️  Database: %s\n", a.config.DatabasePath)
	fmt.Printf("📁 Logs: %s\n", a.config.LogDirectory)

	return http.ListenAndServe(fmt.Sprintf(":%d", a.config.Port), router)
}
