package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/vancomm/minesweeper-gym/internal/telemetry"
)

// Memory is a process-local [Store] used when no database is configured.
type Memory struct {
	mu       sync.RWMutex
	agents   map[string]*Agent
	names    map[int64]string
	episodes []Episode
	nextID   int64
}

func NewMemory() *Memory {
	return &Memory{
		agents: make(map[string]*Agent),
		names:  make(map[int64]string),
	}
}

func (m *Memory) CreateAgent(_ context.Context, params CreateAgentParams) (*Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.agents[params.Name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrNameTaken, params.Name)
	}
	m.nextID++
	agent := &Agent{
		AgentID:      m.nextID,
		Name:         params.Name,
		PasswordHash: slices.Clone(params.PasswordHash),
		CreatedAt:    time.Now().UTC(),
	}
	m.agents[agent.Name] = agent
	m.names[agent.AgentID] = agent.Name

	copied := *agent
	return &copied, nil
}

func (m *Memory) FetchAgent(_ context.Context, name string) (*Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	agent, ok := m.agents[name]
	if !ok {
		return nil, fmt.Errorf("agent %q: %w", name, ErrNotFound)
	}
	copied := *agent
	return &copied, nil
}

func (m *Memory) CreateEpisode(_ context.Context, e telemetry.Episode) (*Episode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	stored := Episode{EpisodeID: m.nextID, Episode: e}
	if e.AgentID != nil {
		name, ok := m.names[*e.AgentID]
		if !ok {
			return nil, fmt.Errorf("agent %d: %w", *e.AgentID, ErrNotFound)
		}
		stored.AgentName = &name
	}
	m.episodes = append(m.episodes, stored)
	return &stored, nil
}

// ListEpisodes returns matching episodes, most recent first.
func (m *Memory) ListEpisodes(_ context.Context, filter EpisodeFilter) ([]Episode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit := filter.limit()
	result := make([]Episode, 0)
	for i := len(m.episodes) - 1; i >= 0 && len(result) < limit; i-- {
		e := m.episodes[i]
		if filter.Match(e.Episode, e.AgentName) {
			result = append(result, e)
		}
	}
	return result, nil
}
