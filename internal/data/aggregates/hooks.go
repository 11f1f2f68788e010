package aggregates

import (
	"strings"
	"time"

	"github.com/yungbote/bookshelf-backend/internal/observability"
)

// Hooks captures aggregate-level observability events.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncDuplicate(name string)
	IncBusy(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncDuplicate(string)                            {}
func (noopHooks) IncBusy(string)                                 {}

type observabilityHooks struct {
	metrics *observability.Metrics
}

// NewObservabilityHooks creates aggregate hooks backed by the metrics registry.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return &observabilityHooks{metrics: metrics}
}

func (h *observabilityHooks) ObserveOperation(name, status string, dur time.Duration) {
	if h == nil || h.metrics == nil {
		return
	}
	h.metrics.ObserveAggregateOperation(strings.TrimSpace(name), strings.TrimSpace(status), dur)
}

func (h *observabilityHooks) IncDuplicate(name string) {
	if h == nil || h.metrics == nil {
		return
	}
	h.metrics.IncAggregateDuplicate(strings.TrimSpace(name))
}

func (h *observabilityHooks) IncBusy(name string) {
	if h == nil || h.metrics == nil {
		return
	}
	h.metrics.IncAggregateBusy(strings.TrimSpace(name))
}
