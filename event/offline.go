package event

import (
	"cmp"
	"time"

	"github.com/rickb777/date/v2/timespan"
)

// Record is a trigger captured while its namespace was still buffering.
type Record struct {
	Seq   uint64
	Event string
	Args  []any
	At    timespan.TimeSpan
}

const epsilon = time.Millisecond

func newRecord(seq uint64, eventName string, args []any) Record {
	now := time.Now()
	return Record{
		Seq:   seq,
		Event: eventName,
		Args:  append([]any(nil), args...),
		At:    timespan.BetweenTimes(now.Add(-epsilon), now.Add(epsilon)),
	}
}

func compareRecords(a, b Record) int {
	return cmp.Compare(a.Seq, b.Seq)
}
