package crawler

import "sync"

// Task is one URL waiting to be fetched, with its BFS depth
type Task struct {
	URL   string
	Depth int
}

// Queue implements a FIFO crawl queue with deduplication. A URL that has
// ever been pushed is marked seen and will not be accepted again, which
// guarantees each URL is fetched at most once per run.
type Queue struct {
	mu    sync.Mutex
	items []Task
	seen  map[string]bool
}

// NewQueue creates a new crawl queue
func NewQueue() *Queue {
	return &Queue{
		items: make([]Task, 0),
		seen:  make(map[string]bool),
	}
}

// Push adds a task to the queue if its URL has not been seen before.
// Returns true if added, false if duplicate.
func (q *Queue) Push(task Task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.seen[task.URL] {
		return false
	}

	q.seen[task.URL] = true
	q.items = append(q.items, task)
	return true
}

// Pop removes and returns the first task from the queue.
// Returns (task, true) if successful, (empty, false) if the queue is empty.
func (q *Queue) Pop() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return Task{}, false
	}

	task := q.items[0]
	q.items = q.items[1:]
	return task, true
}

// Seen reports whether a URL has ever been pushed
func (q *Queue) Seen(url string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.seen[url]
}

// Size returns the current number of queued tasks
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
