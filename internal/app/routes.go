package app

import (
	"encoding/json"
	"net/http"

	"github.com/vancomm/minesweeper-gym/internal/handlers"
)

func (a *App) loadRoutes() {
	agents := handlers.NewAgents(a.log, a.store, a.jwt)
	sessions := handlers.NewSessions(
		a.log, a.hub, a.store, a.recorder, a.ws, a.cfg.Game,
	)
	episodes := handlers.NewEpisodes(a.log, a.store)

	a.router.HandleFunc("POST /agents", agents.Register)
	a.router.HandleFunc("POST /agents/login", agents.Login)

	a.router.HandleFunc("POST /sessions", sessions.Create)
	a.router.HandleFunc("GET /sessions/{id}", sessions.Fetch)
	a.router.HandleFunc("DELETE /sessions/{id}", sessions.Close)
	a.router.HandleFunc("POST /sessions/{id}/click", sessions.Click)
	a.router.HandleFunc("POST /sessions/{id}/flag", sessions.Flag)
	a.router.HandleFunc("POST /sessions/{id}/step", sessions.Step)
	a.router.HandleFunc("POST /sessions/{id}/reset", sessions.Reset)
	a.router.HandleFunc("POST /sessions/{id}/forfeit", sessions.Forfeit)
	a.router.HandleFunc("GET /sessions/{id}/connect", sessions.Connect)

	a.router.HandleFunc("GET /episodes", episodes.List)
	a.router.HandleFunc("GET /episodes/stats", episodes.Stats)

	a.router.HandleFunc("GET /healthz", a.health)
}

type healthDTO struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(healthDTO{Status: "ok", Sessions: a.hub.Len()})
	if err != nil {
		a.log.WithError(err).Error("unable to send health")
	}
}
