package config

import (
	"net/http"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader  websocket.Upgrader
	ReadLimit int64
	// AllowDebug lets connections run debug commands that reveal bombs.
	AllowDebug bool
}

// NewWebSocket builds the upgrader used by session connections. Outside
// development the default same-origin check applies and debug commands are
// refused.
func NewWebSocket(cfg WebSocketConfig, development bool) *WebSocket {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
	}
	if development {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	}

	return &WebSocket{
		Upgrader:   upgrader,
		ReadLimit:  cfg.ReadLimit,
		AllowDebug: development,
	}
}
