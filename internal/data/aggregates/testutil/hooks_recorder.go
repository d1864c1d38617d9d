package testutil

import (
	"sync"
	"time"

	"github.com/yungbote/contactbook-backend/internal/data/aggregates"
)

// HooksRecorder captures aggregate hook signals in tests. Safe for concurrent use.
type HooksRecorder struct {
	mu sync.Mutex

	Operations []OperationEvent
	LockWaits  []LockWaitEvent
	Conflicts  []string
	Retries    []string
}

type OperationEvent struct {
	Name     string
	Status   string
	Duration time.Duration
}

type LockWaitEvent struct {
	Name     string
	Duration time.Duration
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveOperation(name, status string, dur time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Operations = append(h.Operations, OperationEvent{Name: name, Status: status, Duration: dur})
}

func (h *HooksRecorder) ObserveLockWait(name string, dur time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LockWaits = append(h.LockWaits, LockWaitEvent{Name: name, Duration: dur})
}

func (h *HooksRecorder) IncConflict(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Conflicts = append(h.Conflicts, name)
}

func (h *HooksRecorder) IncRetry(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Retries = append(h.Retries, name)
}

// StatusesFor returns the recorded statuses of op, oldest first.
func (h *HooksRecorder) StatusesFor(op string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, e := range h.Operations {
		if e.Name == op {
			out = append(out, e.Status)
		}
	}
	return out
}
