package dto

// StatusMessage is broadcast to status clients after each liveness probe.
type StatusMessage struct {
	Backend   string `json:"backend"` // "online" or "offline"
	CheckedAt string `json:"checked_at"`
}
