package handlers

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"pv-plant-model/internal/analysis"
	"pv-plant-model/internal/sim"
)

const defaultRunHistory = 32

// StoredRun is one completed simulation kept for later retrieval.
type StoredRun struct {
	ID        string
	CreatedAt time.Time
	Dataset   string
	Result    *sim.Result
	Summary   analysis.Summary
}

// RunStore keeps recent simulation results in memory so ledger and summary
// queries can reference a run by ID without re-running it. The store is
// bounded; once full, the oldest run is evicted for each new one.
type RunStore struct {
	mu    sync.Mutex
	limit int
	runs  map[string]*StoredRun
	order []string
}

// NewRunStore creates a run store holding up to limit runs.
func NewRunStore(limit int) *RunStore {
	if limit <= 0 {
		limit = defaultRunHistory
	}
	return &RunStore{
		limit: limit,
		runs:  make(map[string]*StoredRun),
	}
}

// Add stores a run under a fresh ID and returns the ID.
func (s *RunStore) Add(run *StoredRun) string {
	id := uuid.NewString()
	run.ID = id
	run.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[id] = run
	s.order = append(s.order, id)
	for len(s.order) > s.limit {
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
	return id
}

// Get returns the stored run for an ID, if it is still held.
func (s *RunStore) Get(id string) (*StoredRun, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	return run, ok
}

// Len reports how many runs are currently held.
func (s *RunStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runs)
}
