// Package eventlist keeps slices of events sorted by created_at without
// duplicate ids. Insertions never write to the slice they are given; callers
// holding an earlier slice do not see later insertions.
package eventlist

import (
	"golang.org/x/exp/slices"

	"github.com/jiangplus/nostr-snap/engine/events"
)

type Order int

const (
	Descending Order = iota
	Ascending
)

func (o Order) String() string {
	if o == Ascending {
		return "ascending"
	}
	return "descending"
}

// precedes reports whether a timestamp a sorts strictly before b.
func (o Order) precedes(a, b events.Timestamp) bool {
	if o == Ascending {
		return a < b
	}
	return a > b
}

// InsertDescending inserts ev into sorted, which must be ordered newest first
// and hold no duplicate ids. If an event with the same id is already in the
// list, sorted is returned as it is.
func InsertDescending(sorted []*events.Event, ev *events.Event) []*events.Event {
	return insert(sorted, ev, Descending)
}

// InsertAscending inserts ev into sorted, which must be ordered oldest first
// and hold no duplicate ids. If an event with the same id is already in the
// list, sorted is returned as it is.
func InsertAscending(sorted []*events.Event, ev *events.Event) []*events.Event {
	return insert(sorted, ev, Ascending)
}

func insert(sorted []*events.Event, ev *events.Event, order Order) []*events.Event {
	if len(sorted) == 0 {
		return []*events.Event{ev}
	}
	i := locate(sorted, ev.CreatedAt, order)
	if duplicate(sorted, i, ev) {
		return sorted
	}
	// Clip drops spare capacity so Insert always allocates.
	return slices.Insert(slices.Clip(sorted), i, ev)
}

// locate returns the index ev should be inserted at. An exact timestamp match
// ends the search at the matching element; ties are not ordered any further.
func locate(sorted []*events.Event, at events.Timestamp, order Order) int {
	last := len(sorted) - 1
	if order.precedes(sorted[last].CreatedAt, at) {
		return len(sorted)
	}
	if !order.precedes(sorted[0].CreatedAt, at) {
		return 0
	}
	start, end := 0, last
	for end-start > 1 {
		mid := start + (end-start)/2
		switch c := sorted[mid].CreatedAt; {
		case c == at:
			return mid
		case order.precedes(c, at):
			start = mid
		default:
			end = mid
		}
	}
	return end
}

// duplicate reports whether an event with ev's id sits at i or among the
// neighbours of i that share ev's timestamp.
func duplicate(sorted []*events.Event, i int, ev *events.Event) bool {
	if i < len(sorted) && sorted[i].ID == ev.ID {
		return true
	}
	for j := i - 1; j >= 0 && sorted[j].CreatedAt == ev.CreatedAt; j-- {
		if sorted[j].ID == ev.ID {
			return true
		}
	}
	for j := i; j < len(sorted) && sorted[j].CreatedAt == ev.CreatedAt; j++ {
		if sorted[j].ID == ev.ID {
			return true
		}
	}
	return false
}

// IsSorted reports whether list is ordered by created_at in the given order.
// Equal timestamps are allowed in either order.
func IsSorted(list []*events.Event, order Order) bool {
	for i := 1; i < len(list); i++ {
		if order.precedes(list[i].CreatedAt, list[i-1].CreatedAt) {
			return false
		}
	}
	return true
}

// Contains reports whether an event with the given id is in list.
func Contains(list []*events.Event, id string) bool {
	return slices.IndexFunc(list, func(e *events.Event) bool { return e.ID == id }) >= 0
}
