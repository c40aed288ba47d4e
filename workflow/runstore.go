package workflow

import (
	"sync"
	"time"

	"github.com/mmdatafocus/warranty_backend/models"
)

// RunStore keeps completed run results in memory so the operator can drill
// down and export without re-uploading the extract. Entries expire after the
// TTL; nothing survives a process restart, by design.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]storedRun
	ttl  time.Duration
}

type storedRun struct {
	result  *models.RunResult
	savedAt time.Time
}

func NewRunStore(ttl time.Duration) *RunStore {
	return &RunStore{runs: map[string]storedRun{}, ttl: ttl}
}

// Put stores a completed result under its run id. Results are stored only
// once fully built, so a reader can never observe a partial run.
func (s *RunStore) Put(result *models.RunResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked()
	s.runs[result.RunId] = storedRun{result: result, savedAt: time.Now()}
}

func (s *RunStore) Get(runId string) (*models.RunResult, bool) {
	s.mu.RLock()
	entry, ok := s.runs[runId]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && time.Since(entry.savedAt) > s.ttl {
		s.mu.Lock()
		delete(s.runs, runId)
		s.mu.Unlock()
		return nil, false
	}
	return entry.result, true
}

func (s *RunStore) evictExpiredLocked() {
	if s.ttl <= 0 {
		return
	}
	for id, entry := range s.runs {
		if time.Since(entry.savedAt) > s.ttl {
			delete(s.runs, id)
		}
	}
}
