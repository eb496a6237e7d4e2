package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-gym/internal/mines"
	"github.com/vancomm/minesweeper-gym/internal/repository"
	"github.com/vancomm/minesweeper-gym/internal/telemetry"
)

var ErrPartialParams = errors.New("rows, cols and bombs must be given together")

type Episodes struct {
	log   *logrus.Logger
	store repository.Store
	dec   *schema.Decoder
}

func NewEpisodes(log *logrus.Logger, store repository.Store) *Episodes {
	return &Episodes{log: log, store: store, dec: newDecoder()}
}

type episodeQuery struct {
	Agent string `schema:"agent"`
	Rows  *int   `schema:"rows"`
	Cols  *int   `schema:"cols"`
	Bombs *int   `schema:"bombs"`
	Won   bool   `schema:"won"`
	Limit int    `schema:"limit"`
}

func (q episodeQuery) filter() (repository.EpisodeFilter, error) {
	f := repository.EpisodeFilter{WonOnly: q.Won, Limit: q.Limit}
	if q.Agent != "" {
		f.AgentName = &q.Agent
	}
	switch {
	case q.Rows == nil && q.Cols == nil && q.Bombs == nil:
	case q.Rows != nil && q.Cols != nil && q.Bombs != nil:
		f.Params = &mines.Params{Rows: *q.Rows, Cols: *q.Cols, Bombs: *q.Bombs}
	default:
		return f, ErrPartialParams
	}
	return f, nil
}

func (h *Episodes) list(w http.ResponseWriter, r *http.Request) ([]repository.Episode, bool) {
	var query episodeQuery
	if err := h.dec.Decode(&query, r.URL.Query()); err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return nil, false
	}
	filter, err := query.filter()
	if err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return nil, false
	}
	episodes, err := h.store.ListEpisodes(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to list episodes")
		return nil, false
	}
	return episodes, true
}

func (h *Episodes) List(w http.ResponseWriter, r *http.Request) {
	if episodes, ok := h.list(w, r); ok {
		sendJSONOrLog(w, h.log, http.StatusOK, episodes)
	}
}

func (h *Episodes) Stats(w http.ResponseWriter, r *http.Request) {
	episodes, ok := h.list(w, r)
	if !ok {
		return
	}
	records := make([]telemetry.Episode, len(episodes))
	for i, e := range episodes {
		records[i] = e.Episode
	}
	sendJSONOrLog(w, h.log, http.StatusOK, telemetry.Summarize(records))
}
