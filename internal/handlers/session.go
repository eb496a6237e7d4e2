package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-gym/internal/command"
	"github.com/vancomm/minesweeper-gym/internal/config"
	"github.com/vancomm/minesweeper-gym/internal/hub"
	"github.com/vancomm/minesweeper-gym/internal/middleware"
	"github.com/vancomm/minesweeper-gym/internal/mines"
	"github.com/vancomm/minesweeper-gym/internal/repository"
	"github.com/vancomm/minesweeper-gym/internal/telemetry"
)

var (
	ErrBadSessionID    = errors.New("session id must be an int")
	ErrSessionNotFound = errors.New("session not found")
	ErrNotYourSession  = errors.New("session belongs to another agent")
)

const storeTimeout = 5 * time.Second

type Sessions struct {
	log      *logrus.Logger
	hub      *hub.Hub
	store    repository.Store
	recorder *telemetry.Recorder
	ws       *config.WebSocket
	game     config.GameConfig
	dec      *schema.Decoder
}

func NewSessions(
	log *logrus.Logger,
	h *hub.Hub,
	store repository.Store,
	recorder *telemetry.Recorder,
	ws *config.WebSocket,
	game config.GameConfig,
) *Sessions {
	return &Sessions{
		log:      log,
		hub:      h,
		store:    store,
		recorder: recorder,
		ws:       ws,
		game:     game,
		dec:      newDecoder(),
	}
}

func (h *Sessions) Create(w http.ResponseWriter, r *http.Request) {
	query := newSessionQuery{
		Rows:  h.game.Defaults.Rows,
		Cols:  h.game.Defaults.Cols,
		Bombs: h.game.Defaults.Bombs,
	}
	if err := h.dec.Decode(&query, r.URL.Query()); err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}

	params := mines.Params{Rows: query.Rows, Cols: query.Cols, Bombs: query.Bombs}
	if err := params.Validate(); err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}
	if h.game.MaxCells > 0 && params.Rows*params.Cols > h.game.MaxCells {
		sendError(w, h.log, http.StatusBadRequest,
			fmt.Errorf("board larger than %d cells", h.game.MaxCells))
		return
	}

	rnd := mines.NewRand()
	if query.Seed != nil {
		rnd = mines.NewSeededRand(*query.Seed)
	}
	s, err := mines.NewSession(params, mines.RandomDealer(rnd))
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to create session")
		return
	}
	s.SetRewards(h.game.Rewards)

	var agentID *int64
	if claims, ok := middleware.ClaimsFrom(r.Context()); ok {
		id := claims.AgentID
		agentID = &id
	}
	e := h.hub.Add(s, agentID)
	s.OnEnd(h.recordEpisode(e, s))

	h.log.WithFields(logrus.Fields{
		"session": e.ID,
		"rows":    params.Rows,
		"cols":    params.Cols,
		"bombs":   params.Bombs,
	}).Debug("session created")

	var dto SessionDTO
	_ = e.Do(func(s *mines.Session) error {
		dto = newSessionDTO(e, s)
		return nil
	})
	sendJSONOrLog(w, h.log, http.StatusCreated, dto)
}

// recordEpisode persists every finished episode of s. It runs inside
// e.Do, so it may read s directly.
func (h *Sessions) recordEpisode(e *hub.Entry, s *mines.Session) mines.EndFunc {
	return func(remaining int, lost bool) {
		p := s.Params()
		episode := telemetry.Episode{
			SessionID: e.ID,
			AgentID:   e.AgentID,
			Number:    s.Episode(),
			Rows:      p.Rows,
			Cols:      p.Cols,
			Bombs:     s.Board().Bombs(),
			Steps:     s.Steps(),
			Reward:    s.Reward(),
			Remaining: remaining,
			Lost:      lost,
			StartedAt: s.StartedAt(),
			EndedAt:   time.Now(),
		}
		log := h.log.WithFields(logrus.Fields{
			"session": e.ID,
			"episode": episode.Number,
			"won":     episode.Won(),
			"steps":   episode.Steps,
			"reward":  episode.Reward,
		})

		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if _, err := h.store.CreateEpisode(ctx, episode); err != nil {
			log.WithError(err).Error("unable to store episode")
		}
		if err := h.recorder.Record(episode); err != nil {
			log.WithError(err).Error("unable to record episode")
		}
		log.Info("episode ended")
	}
}

// entry resolves the {id} path value and checks ownership. On failure the
// response has already been written.
func (h *Sessions) entry(w http.ResponseWriter, r *http.Request) (*hub.Entry, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		sendError(w, h.log, http.StatusBadRequest, ErrBadSessionID)
		return nil, false
	}
	e, ok := h.hub.Get(id)
	if !ok {
		sendError(w, h.log, http.StatusNotFound, ErrSessionNotFound)
		return nil, false
	}
	if e.AgentID != nil {
		claims, ok := middleware.ClaimsFrom(r.Context())
		if !ok || claims.AgentID != *e.AgentID {
			sendError(w, h.log, http.StatusForbidden, ErrNotYourSession)
			return nil, false
		}
	}
	return e, true
}

func (h *Sessions) Fetch(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entry(w, r)
	if !ok {
		return
	}
	var dto SessionDTO
	_ = e.Do(func(s *mines.Session) error {
		dto = newSessionDTO(e, s)
		return nil
	})
	sendJSONOrLog(w, h.log, http.StatusOK, dto)
}

type ActionDTO struct {
	Result  command.Result `json:"result"`
	Session SessionDTO     `json:"session"`
}

func (h *Sessions) apply(w http.ResponseWriter, e *hub.Entry, cmd command.Command) {
	var dto ActionDTO
	err := e.Do(func(s *mines.Session) error {
		res, err := command.Execute(s, cmd)
		if err != nil {
			return err
		}
		dto = ActionDTO{Result: res, Session: newSessionDTO(e, s)}
		return nil
	})
	if err != nil {
		status := statusOf(err)
		if status == http.StatusInternalServerError {
			h.log.WithError(err).WithField("command", cmd.String()).Error("unable to apply command")
			w.WriteHeader(status)
			return
		}
		sendError(w, h.log, status, err)
		return
	}
	sendJSONOrLog(w, h.log, http.StatusOK, dto)
}

func (h *Sessions) position(w http.ResponseWriter, r *http.Request) (positionQuery, bool) {
	var pos positionQuery
	if err := h.dec.Decode(&pos, r.URL.Query()); err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return pos, false
	}
	return pos, true
}

func (h *Sessions) Click(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entry(w, r)
	if !ok {
		return
	}
	pos, ok := h.position(w, r)
	if !ok {
		return
	}
	h.apply(w, e, command.Command{Op: command.Click, Row: pos.Row, Col: pos.Col})
}

func (h *Sessions) Flag(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entry(w, r)
	if !ok {
		return
	}
	pos, ok := h.position(w, r)
	if !ok {
		return
	}
	h.apply(w, e, command.Command{Op: command.Flag, Row: pos.Row, Col: pos.Col})
}

func (h *Sessions) Step(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entry(w, r)
	if !ok {
		return
	}
	var q stepQuery
	if err := h.dec.Decode(&q, r.URL.Query()); err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}
	h.apply(w, e, command.Command{Op: command.Step, Action: q.Action})
}

func (h *Sessions) Reset(w http.ResponseWriter, r *http.Request) {
	if e, ok := h.entry(w, r); ok {
		h.apply(w, e, command.Command{Op: command.Reset})
	}
}

func (h *Sessions) Forfeit(w http.ResponseWriter, r *http.Request) {
	if e, ok := h.entry(w, r); ok {
		h.apply(w, e, command.Command{Op: command.Forfeit})
	}
}

// Close ends the session for good. A running episode is not recorded.
func (h *Sessions) Close(w http.ResponseWriter, r *http.Request) {
	if e, ok := h.entry(w, r); ok {
		h.hub.Remove(e.ID)
		w.WriteHeader(http.StatusNoContent)
	}
}
