// Package scheduler partitions the enabled analyses into a parallel batch
// and an exclusive batch, runs the parallel batch on a bounded worker pool,
// then runs the exclusive batch sequentially with the full thread budget.
//
// Cancellation is cooperative: the context is polled at dispatch and
// collection boundaries only, so a task already running is never interrupted
// mid-flight. Results arrive in completion order; consumers must not rely on
// any ordering between parallel-batch completions.
package scheduler
