package history

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/daap14/clustersmoke/internal/report"
)

// MemoryRepository keeps runs in process memory. Used when no DATABASE_URL
// is configured; history is lost on restart.
type MemoryRepository struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]report.Run
}

// NewMemoryRepository creates an empty in-memory Repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{runs: make(map[uuid.UUID]report.Run)}
}

func (m *MemoryRepository) Save(_ context.Context, run *report.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run.ID] = cloneRun(run)
	return nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*report.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneRun(&run)
	return &out, nil
}

func (m *MemoryRepository) List(_ context.Context, limit int) ([]report.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	runs := make([]report.Run, 0, len(m.runs))
	for _, run := range m.runs {
		runs = append(runs, cloneRun(&run))
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	if limit = clampLimit(limit); len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func cloneRun(run *report.Run) report.Run {
	out := *run
	out.Results = make([]report.Result, len(run.Results))
	copy(out.Results, run.Results)
	return out
}
