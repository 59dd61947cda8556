package tasks

import "sync"

// InflightSet tracks task ids currently being processed. Two concurrent
// requests sharing a task id would race on the same face/swap/output paths,
// so the second one is rejected instead.
type InflightSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func NewInflightSet() *InflightSet {
	return &InflightSet{ids: make(map[string]struct{})}
}

// Acquire reserves id, returning false when it is already in flight.
func (s *InflightSet) Acquire(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *InflightSet) Release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
}
