package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper-gym/internal/command"
	"github.com/vancomm/minesweeper-gym/internal/mines"
)

type Reply struct {
	Line   string          `json:"line"`
	Result *command.Result `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

type MessageDTO struct {
	Replies []Reply    `json:"replies"`
	Session SessionDTO `json:"session"`
}

// Connect upgrades to a WebSocket. Every text message holds one or more
// protocol lines; the server answers each message with one reply per line
// and a snapshot of the session.
func (h *Sessions) Connect(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entry(w, r)
	if !ok {
		return
	}
	c, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("upgrade")
		return
	}
	defer c.Close()
	if h.ws.ReadLimit > 0 {
		c.SetReadLimit(h.ws.ReadLimit)
	}

	log := h.log.WithField("session", e.ID)
	log.Debug("ws connected")
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("read")
			}
			break
		}
		if mt != websocket.TextMessage {
			_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(
				websocket.CloseUnsupportedData, "text messages only",
			))
			break
		}

		var msg MessageDTO
		_ = e.Do(func(s *mines.Session) error {
			msg.Replies = execLines(s, string(message), h.ws.AllowDebug)
			msg.Session = newSessionDTO(e, s)
			return nil
		})
		if err := c.WriteJSON(msg); err != nil {
			log.WithError(err).Warn("write")
			break
		}
	}
	log.Debug("ws disconnected")
}

func execLines(s *mines.Session, text string, allowDebug bool) []Reply {
	replies := make([]Reply, 0)
	for _, line := range command.Lines(text) {
		reply := Reply{Line: line}
		cmd, err := command.Parse(line)
		if err == nil && cmd.Debug() && !allowDebug {
			err = fmt.Errorf("%w: %s", command.ErrDebug, cmd)
		}
		if err == nil {
			var res command.Result
			res, err = command.Execute(s, cmd)
			if err == nil {
				reply.Result = &res
			}
		}
		if err != nil {
			reply.Error = err.Error()
		}
		replies = append(replies, reply)
	}
	return replies
}
