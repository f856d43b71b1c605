package scheduler

// Go runs each task on a new goroutine. It never rejects a task.
type Go struct{}

// Submit starts task on a new goroutine.
func (Go) Submit(task func()) bool {
	go task()
	return true
}
