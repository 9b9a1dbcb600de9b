package handler

import (
	"net/http"
	"time"

	gorilla "github.com/gorilla/websocket"

	"visiondash/internal/logger"
	"visiondash/internal/service"
	"visiondash/internal/websocket"
)

var upgrader = gorilla.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StatusWebsocketHandler subscribes a UI client to backend status broadcasts.
func StatusWebsocketHandler(hub *websocket.HubService, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}
		connection.SetReadLimit(512)
		connection.SetReadDeadline(time.Now().Add(60 * time.Second))
		connection.SetPongHandler(func(appData string) error {
			connection.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		defer connection.Close()

		hub.Register(connection)
		defer hub.Unregister(connection)

		for {
			_, _, err := connection.ReadMessage()
			if err != nil {
				break
			}
		}
	}
}

// HealthHandler reports the last observed backend status.
func HealthHandler(monitor *service.HealthMonitor, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "online"
		if !monitor.Online() {
			status = "offline"
		}
		writeJSON(w, logger, map[string]string{"status": "running", "backend": status})
	}
}
