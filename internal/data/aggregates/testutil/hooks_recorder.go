package testutil

import (
	"sync"
	"time"

	"github.com/yungbote/intervention-backend/internal/data/aggregates"
)

// HooksRecorder captures case aggregate hook signals in tests.
type HooksRecorder struct {
	mu sync.Mutex

	Operations     []OperationEvent
	Conflicts      []string
	Retries        []string
	Exhausted      []string
	CodeCollisions int
}

type OperationEvent struct {
	Name     string
	Status   string
	Duration time.Duration
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveOperation(name, status string, dur time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Operations = append(h.Operations, OperationEvent{
		Name:     name,
		Status:   status,
		Duration: dur,
	})
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

func (h *HooksRecorder) IncExhausted(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Exhausted = append(h.Exhausted, name)
}

func (h *HooksRecorder) IncCodeCollision() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.CodeCollisions++
}

// Statuses returns the recorded status of every operation named name, in order.
func (h *HooksRecorder) Statuses(name string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, op := range h.Operations {
		if op.Name == name {
			out = append(out, op.Status)
		}
	}
	return out
}
