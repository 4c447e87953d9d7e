// Package relay forwards notifications from one machine to another over a
// websocket. A headless box (CI runner, remote shell, container) runs the
// client backend; the desktop runs `relay serve` and shows them.
package relay

import (
	"desknotify/internal/notify"
)

// Message types on the wire.
const (
	TypeNotify = "notify"
	TypeResult = "result"
	TypeError  = "error"
)

// Request asks the server to deliver one notification.
type Request struct {
	Type         string              `json:"type"`
	ID           string              `json:"id"`
	Notification notify.Notification `json:"notification"`
}

// Response answers one Request by ID.
type Response struct {
	Type    string         `json:"type"`
	ID      string         `json:"id,omitempty"`
	Result  *notify.Result `json:"result,omitempty"`
	Message string         `json:"message,omitempty"`
}

// HealthResponse is served on /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Backend string `json:"backend,omitempty"`
}

// ErrorResponse is the body of failed HTTP requests.
type ErrorResponse struct {
	Error string `json:"error"`
}
