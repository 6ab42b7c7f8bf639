package jobs

import "context"

// Reconciler recomputes derived bootcamp aggregates
type Reconciler interface {
	Reconcile(ctx context.Context) (int, error)
}

// AggregateReconciler refreshes averageCost and averageRating for every
// bootcamp
type AggregateReconciler struct {
	reconciler Reconciler
}

// NewAggregateReconciler creates the aggregate reconciliation job
func NewAggregateReconciler(r Reconciler) *AggregateReconciler {
	return &AggregateReconciler{reconciler: r}
}

// Name implements Job
func (j *AggregateReconciler) Name() string { return "aggregate_reconciler" }

// Run implements Job
func (j *AggregateReconciler) Run(ctx context.Context) error {
	_, err := j.reconciler.Reconcile(ctx)
	return err
}
