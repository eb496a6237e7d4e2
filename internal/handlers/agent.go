package handlers

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/minesweeper-gym/internal/config"
	"github.com/vancomm/minesweeper-gym/internal/repository"
)

var (
	ErrBadAuthBody        = errors.New("request body must contain url-encoded name and password")
	ErrBadNameLength      = errors.New("name must be 1 to 64 characters long")
	ErrBadPasswordTooLong = errors.New("password too long")
	ErrBadCredentials     = errors.New("wrong name or password")
	ErrNameTaken          = errors.New("name taken")
)

type Agents struct {
	log   *logrus.Logger
	store repository.Store
	jwt   *config.JWT
	cost  int
}

func NewAgents(log *logrus.Logger, store repository.Store, jwt *config.JWT) *Agents {
	return &Agents{
		log:   log,
		store: store,
		jwt:   jwt,
		cost:  bcrypt.DefaultCost,
	}
}

type TokenDTO struct {
	AgentID int64  `json:"agent_id"`
	Name    string `json:"name"`
	Token   string `json:"token"`
}

func parseCredentials(r *http.Request) (name, password string, err error) {
	if err := r.ParseForm(); err != nil {
		return "", "", ErrBadAuthBody
	}
	name = r.PostFormValue("name")
	password = r.PostFormValue("password")
	if name == "" || password == "" {
		return "", "", ErrBadAuthBody
	}
	if utf8.RuneCountInString(name) > 64 {
		return "", "", ErrBadNameLength
	}
	// bcrypt only looks at the first 72 bytes
	if len(password) > 72 {
		return "", "", ErrBadPasswordTooLong
	}
	return name, password, nil
}

func (h *Agents) sendToken(w http.ResponseWriter, status int, agent *repository.Agent) {
	token, err := h.jwt.Sign(h.jwt.NewAgentClaims(agent.AgentID, agent.Name))
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to create a jwt token")
		return
	}
	sendJSONOrLog(w, h.log, status, TokenDTO{
		AgentID: agent.AgentID,
		Name:    agent.Name,
		Token:   token,
	})
}

func (h *Agents) Register(w http.ResponseWriter, r *http.Request) {
	name, password, err := parseCredentials(r)
	if err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to hash password")
		return
	}

	agent, err := h.store.CreateAgent(r.Context(), repository.CreateAgentParams{
		Name:         name,
		PasswordHash: hash,
	})
	if errors.Is(err, repository.ErrNameTaken) {
		sendError(w, h.log, http.StatusConflict, ErrNameTaken)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to insert agent")
		return
	}

	h.log.WithField("agent", agent.Name).Info("agent registered")
	h.sendToken(w, http.StatusCreated, agent)
}

func (h *Agents) Login(w http.ResponseWriter, r *http.Request) {
	name, password, err := parseCredentials(r)
	if err != nil {
		sendError(w, h.log, http.StatusBadRequest, err)
		return
	}

	agent, err := h.store.FetchAgent(r.Context(), name)
	if errors.Is(err, repository.ErrNotFound) {
		sendError(w, h.log, http.StatusUnauthorized, ErrBadCredentials)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.log.WithError(err).Error("unable to fetch agent")
		return
	}

	if err := bcrypt.CompareHashAndPassword(agent.PasswordHash, []byte(password)); err != nil {
		sendError(w, h.log, http.StatusUnauthorized, ErrBadCredentials)
		return
	}

	h.sendToken(w, http.StatusOK, agent)
}
