package offline

import (
	"sort"
)

type CompareFunc[T any] func(a, b T) int

// Queue keeps values ordered by compare. With a positive maxLen it is bounded:
// inserting past the bound evicts the smallest value and hands it to onEvict.
//
// Queue is not safe for concurrent use.
type Queue[T any] struct {
	data    []T
	maxLen  int
	compare CompareFunc[T]
	onEvict func(T)
}

// New returns an empty queue. maxLen <= 0 means unbounded; onEvict may be nil.
func New[T any](maxLen int, cmp CompareFunc[T], onEvict func(T)) *Queue[T] {
	if maxLen < 0 {
		maxLen = 0
	}
	if onEvict == nil {
		onEvict = func(T) {}
	}
	return &Queue[T]{
		data:    make([]T, 0, maxLen),
		maxLen:  maxLen,
		compare: cmp,
		onEvict: onEvict,
	}
}

func (q *Queue[T]) Insert(val T) {
	// equal values keep insertion order
	idx := sort.Search(len(q.data), func(i int) bool {
		return q.compare(val, q.data[i]) < 0
	})

	q.data = append(q.data, val)
	copy(q.data[idx+1:], q.data[idx:])
	q.data[idx] = val

	if q.maxLen > 0 && len(q.data) > q.maxLen {
		evicted := q.data[0]
		var zero T
		q.data[0] = zero
		q.data = q.data[1:]
		q.onEvict(evicted)
	}
}

func (q *Queue[T]) Len() int {
	return len(q.data)
}

// Snapshot returns a copy of the queued values in order.
func (q *Queue[T]) Snapshot() []T {
	out := make([]T, len(q.data))
	copy(out, q.data)
	return out
}

// Drain returns every queued value in order and leaves the queue empty.
func (q *Queue[T]) Drain() []T {
	out := q.data
	q.data = make([]T, 0, q.maxLen)
	return out
}
