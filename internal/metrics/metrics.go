package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	// ReconcilePanics is a prometheus counter metrics which holds the total
	// number of panics recovered by the worker.
	ReconcilePanics = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "restic_populator_reconcile_panics_total",
		Help: "Total number of reconciliation panics recovered by the worker",
	})

	// ReconcileTasks counts executed work items by kind and result.
	ReconcileTasks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "restic_populator_reconcile_tasks_total",
		Help: "Total number of executed reconcile tasks",
	}, []string{"kind", "result"})

	StatusTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "restic_populator_status_transitions_total",
		Help: "Total number of populator status transitions",
	}, []string{"from", "to"})

	PersistentVolumeRebinds = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "restic_populator_pv_rebinds_total",
		Help: "Total number of persistent volumes rebound to their target claim",
	})
)

const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultPanic   = "panic"
)

// init will register metrics with the global prometheus registry
func init() {
	metrics.Registry.MustRegister(ReconcilePanics, ReconcileTasks, StatusTransitions, PersistentVolumeRebinds)
}
