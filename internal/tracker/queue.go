package tracker

// task is one unit of work on a document's serial queue.
type task struct {
	name    string
	execute func()
}

// queue drains tasks for a single document strictly in arrival order. Each
// session owns one queue; queues for different documents never share state.
type queue struct {
	tasks chan task
	done  chan struct{}
}

func newQueue(size int) *queue {
	q := &queue{
		tasks: make(chan task, size),
		done:  make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *queue) run() {
	for t := range q.tasks {
		log.Debugf("executing %s task", t.name)
		t.execute()
	}
	close(q.done)
}

// enqueue submits a task. Blocks if the queue is full rather than dropping;
// reconciliation passes are bounded so the queue always drains.
func (q *queue) enqueue(t task) {
	q.tasks <- t
}

// stop closes the queue and waits until every queued task has run.
func (q *queue) stop() {
	close(q.tasks)
	<-q.done
}
