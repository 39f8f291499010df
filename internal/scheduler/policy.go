package scheduler

// PoolWidth returns the number of concurrent workers for a parallel batch of
// the given size under the requested thread count. The pool may run fewer
// tasks concurrently than exist when the thread budget is tight, queuing the
// remainder.
func PoolWidth(batchSize, threads int) int {
	if batchSize == 0 {
		return 0
	}
	width := threads / 2
	if width < 1 {
		width = 1
	}
	if width > batchSize {
		width = batchSize
	}
	return width
}

// TaskBudget returns the per-task thread budget for a parallel batch of the
// given size. Never zero.
func TaskBudget(batchSize, threads int) int {
	if batchSize == 0 {
		return threads
	}
	budget := threads / batchSize
	if budget < 1 {
		budget = 1
	}
	return budget
}
