package offline_test

import (
	"testing"

	"github.com/on-the-ground/event_ive_go/internal/offline"
	"github.com/stretchr/testify/assert"
)

func intCompare(a, b int) int {
	return a - b
}

func TestQueue_InsertKeepsOrder(t *testing.T) {
	q := offline.New(0, intCompare, nil)

	for _, v := range []int{10, 5, 7, 3, 8} {
		q.Insert(v)
	}

	assert.Equal(t, 5, q.Len())
	assert.Equal(t, []int{3, 5, 7, 8, 10}, q.Snapshot())
}

func TestQueue_BoundedEvictsSmallest(t *testing.T) {
	var evicted []int
	q := offline.New(3, intCompare, func(v int) {
		evicted = append(evicted, v)
	})

	// expected: evicted 3, 5 -> remaining 7, 8, 10
	for _, v := range []int{10, 5, 7, 3, 8} {
		q.Insert(v)
	}

	assert.Equal(t, []int{3, 5}, evicted)
	assert.Equal(t, []int{7, 8, 10}, q.Snapshot())
}

func TestQueue_EqualValuesKeepInsertionOrder(t *testing.T) {
	type item struct {
		key   int
		label string
	}
	q := offline.New(0, func(a, b item) int { return a.key - b.key }, nil)

	q.Insert(item{1, "first"})
	q.Insert(item{1, "second"})
	q.Insert(item{0, "zero"})

	got := q.Snapshot()
	assert.Equal(t, []string{"zero", "first", "second"}, []string{got[0].label, got[1].label, got[2].label})
}

func TestQueue_DrainEmpties(t *testing.T) {
	q := offline.New(0, intCompare, nil)
	q.Insert(2)
	q.Insert(1)

	assert.Equal(t, []int{1, 2}, q.Drain())
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Snapshot())

	q.Insert(4)
	assert.Equal(t, []int{4}, q.Snapshot())
}

func TestQueue_SnapshotIsACopy(t *testing.T) {
	q := offline.New(0, intCompare, nil)
	q.Insert(1)

	snap := q.Snapshot()
	snap[0] = 99

	assert.Equal(t, []int{1}, q.Snapshot())
}
