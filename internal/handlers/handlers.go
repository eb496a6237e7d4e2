// Package handlers implements the HTTP and WebSocket endpoints of the
// environment server.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-gym/internal/command"
	"github.com/vancomm/minesweeper-gym/internal/mines"
)

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

func sendJSON(w http.ResponseWriter, status int, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return 0, err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, log *logrus.Logger, status int, v any) {
	if _, err := sendJSON(w, status, v); err != nil {
		log.WithError(err).WithField("response", v).Error("unable to send response")
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}

func sendError(w http.ResponseWriter, log *logrus.Logger, status int, err error) {
	sendJSONOrLog(w, log, status, wrapError(err))
}

// statusOf maps errors coming out of a session to response codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, mines.ErrInvalidDimension),
		errors.Is(err, mines.ErrInvalidBombCount),
		errors.Is(err, mines.ErrOutOfBounds),
		errors.Is(err, command.ErrEmpty),
		errors.Is(err, command.ErrUnknown),
		errors.Is(err, command.ErrNargs):
		return http.StatusBadRequest
	case errors.Is(err, mines.ErrGameOver):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
