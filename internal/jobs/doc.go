// Package jobs runs background work outside request handling.
//
// A Runner owns a cron schedule. Jobs implement a two-method interface:
//
//	type Job interface {
//	    Name() string
//	    Run(ctx context.Context) error
//	}
//
// Wiring in cmd/server:
//
//	runner := jobs.NewRunner(jobs.RunnerConfig{Logger: slog.Default()})
//	runner.Schedule("@hourly", jobs.NewAggregateReconciler(aggregateService))
//	runner.Start()
//	defer runner.Stop()
//
// # Error Handling
//
// Failed runs are logged and the schedule keeps going. A run that is still
// in progress when its next tick arrives causes that tick to be skipped.
package jobs
