package queue

import "context"

type Queue[T any] struct {
	ch chan T
}

// NewQueue returns an unbuffered queue unless a capacity is given.
func NewQueue[T any](capacity ...int) *Queue[T] {
	size := 0
	if len(capacity) > 0 {
		size = capacity[0]
	}
	return &Queue[T]{ch: make(chan T, size)}
}

func (q *Queue[T]) Put(x T) {
	q.ch <- x
}

// PutContext blocks until x is queued or ctx is done.
func (q *Queue[T]) PutContext(ctx context.Context, x T) error {
	select {
	case q.ch <- x:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue[T]) Take() T {
	return <-q.ch
}

func (q *Queue[T]) AsChan() chan T {
	return q.ch
}
