package aggregates

import (
	"strings"
	"time"

	"github.com/yungbote/intervention-backend/internal/observability"
)

// Hooks receives case aggregate outcomes. Every write reports one
// ObserveOperation; the other signals fire in addition to it.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
	// IncExhausted fires when a bounded loop (code generation, create
	// re-runs) gives up.
	IncExhausted(name string)
	// IncCodeCollision fires for each case code candidate found taken.
	IncCodeCollision()
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}
func (noopHooks) IncExhausted(string)                            {}
func (noopHooks) IncCodeCollision()                              {}

type observabilityHooks struct {
	metrics *observability.Metrics
}

// NewObservabilityHooks reports aggregate outcomes as Prometheus series.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return &observabilityHooks{metrics: metrics}
}

func (h *observabilityHooks) ObserveOperation(name, status string, dur time.Duration) {
	h.metrics.ObserveAggregateOperation(strings.TrimSpace(name), strings.TrimSpace(status), dur)
}

func (h *observabilityHooks) IncConflict(name string) {
	h.metrics.IncAggregateConflict(strings.TrimSpace(name))
}

func (h *observabilityHooks) IncRetry(name string) {
	h.metrics.IncAggregateRetry(strings.TrimSpace(name))
}

func (h *observabilityHooks) IncExhausted(name string) {
	h.metrics.IncAggregateExhausted(strings.TrimSpace(name))
}

func (h *observabilityHooks) IncCodeCollision() {
	h.metrics.IncCaseCodeCollision()
}
