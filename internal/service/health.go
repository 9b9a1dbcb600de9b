package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"visiondash/internal/backend"
	"visiondash/internal/dto"
	"visiondash/internal/logger"
	"visiondash/internal/websocket"
)

// HealthMonitor polls the backend liveness probe on a ticker and broadcasts
// the result to status clients. It feeds the status indicator only; no core
// logic consumes it.
type HealthMonitor struct {
	backend *backend.Client
	hub     *websocket.HubService
	logger  *logger.Logger

	mu     sync.RWMutex
	online bool
}

func NewHealthMonitor(backendClient *backend.Client, hub *websocket.HubService, logger *logger.Logger) *HealthMonitor {
	return &HealthMonitor{backend: backendClient, hub: hub, logger: logger}
}

// Run probes immediately and then on every tick. Intended as a goroutine.
func (h *HealthMonitor) Run(interval int) {
	h.probe()

	ticker := time.NewTicker(time.Duration(interval) * time.Second)
	defer ticker.Stop()
	for {
		<-ticker.C
		h.probe()
	}
}

// Online reports the last observed backend status.
func (h *HealthMonitor) Online() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.online
}

func (h *HealthMonitor) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := h.backend.Health(ctx)

	h.mu.Lock()
	wasOnline := h.online
	h.online = err == nil
	nowOnline := h.online
	h.mu.Unlock()

	if wasOnline != nowOnline {
		if nowOnline {
			h.logger.Info("Backend is online")
		} else {
			h.logger.Warning("Backend is offline: %v", err)
		}
	}

	status := "online"
	if !nowOnline {
		status = "offline"
	}
	msg, _ := json.Marshal(dto.StatusMessage{
		Backend:   status,
		CheckedAt: time.Now().Format(time.RFC3339),
	})
	h.hub.Broadcast(msg)
}
