// Package queue holds the category work queue feeding the scrape loop.
package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bala-nullpointer/amznbsscraper/internal/models"
)

var (
	ErrQueueEmpty  = errors.New("queue is empty")
	ErrQueueClosed = errors.New("queue is closed")
)

// Task is one category to scrape. Retries counts how many times the task has
// been re-enqueued after a failed attempt.
type Task struct {
	ID        string
	Category  models.Category
	Retries   int
	CreatedAt time.Time
}

type Queue interface {
	Push(task *Task) error
	Pop(ctx context.Context) (*Task, error)
	Size() int
	Close() error
}

// InMemoryQueue is a FIFO queue. Category order matters on the report, so
// tasks come out in the order the navigation tree listed them; retried tasks
// go to the back.
//
// Waiters block on a notify channel rather than a sync.Cond so that a
// cancelled Pop can simply return: cancellation never has to reason about
// the mutex state of a parked waiter.
type InMemoryQueue struct {
	mu     sync.Mutex
	tasks  []*Task
	notify chan struct{}
	closed bool
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		tasks:  make([]*Task, 0),
		notify: make(chan struct{}),
	}
}

func (q *InMemoryQueue) Push(task *Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	q.tasks = append(q.tasks, task)
	q.wake()

	return nil
}

func (q *InMemoryQueue) Pop(ctx context.Context) (*Task, error) {
	for {
		q.mu.Lock()
		if len(q.tasks) > 0 {
			task := q.tasks[0]
			q.tasks = q.tasks[1:]
			q.mu.Unlock()
			return task, nil
		}
		if q.closed {
			q.mu.Unlock()
			return nil, ErrQueueClosed
		}
		wait := q.notify
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-wait:
		}
	}
}

func (q *InMemoryQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		q.wake()
	}

	return nil
}

// wake releases every parked Pop. Callers hold q.mu. The stale channel stays
// closed, so waiters that grabbed it before the swap wake too.
func (q *InMemoryQueue) wake() {
	close(q.notify)
	q.notify = make(chan struct{})
}
