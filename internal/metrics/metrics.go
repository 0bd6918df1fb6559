// Package metrics exposes Prometheus counters for placement activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Transfers records transfer workflow and persistence outcomes.
// A nil *Transfers is valid and records nothing.
type Transfers struct {
	commits     *prometheus.CounterVec
	conflicts   prometheus.Counter
	cancels     prometheus.Counter
	persistFail *prometheus.CounterVec
}

// NewTransfers creates the counters and registers them with reg.
func NewTransfers(reg prometheus.Registerer) *Transfers {
	t := &Transfers{
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "garage",
			Name:      "transfer_commits_total",
			Help:      "Committed placements by kind (insert, move, replace, swap).",
		}, []string{"kind"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "garage",
			Name:      "transfer_conflicts_total",
			Help:      "Target slots found occupied and held for confirmation.",
		}),
		cancels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "garage",
			Name:      "transfer_cancels_total",
			Help:      "Transfers cancelled before commit.",
		}),
		persistFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "garage",
			Name:      "persistence_failures_total",
			Help:      "Failed garage writes by operation; each one triggers a rollback.",
		}, []string{"op"}),
	}
	reg.MustRegister(t.commits, t.conflicts, t.cancels, t.persistFail)
	return t
}

// Commit counts a committed placement of the given kind.
// Like every Transfers method it is a no-op on a nil receiver.
func (t *Transfers) Commit(kind string) {
	if t == nil {
		return
	}
	t.commits.WithLabelValues(kind).Inc()
}

// Conflict counts a target slot found occupied.
func (t *Transfers) Conflict() {
	if t == nil {
		return
	}
	t.conflicts.Inc()
}

// Cancel counts a transfer discarded before commit.
func (t *Transfers) Cancel() {
	if t == nil {
		return
	}
	t.cancels.Inc()
}

// PersistenceFailure counts a failed garage write for op.
func (t *Transfers) PersistenceFailure(op string) {
	if t == nil {
		return
	}
	t.persistFail.WithLabelValues(op).Inc()
}
