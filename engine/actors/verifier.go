package actors

import (
	"errors"

	"github.com/sasha-s/go-deadlock"

	"github.com/jiangplus/nostr-snap/engine/events"
	"github.com/jiangplus/nostr-snap/engine/library"
)

var ErrUnverified = errors.New("signature does not verify")

// VerifyBatch verifies evs on up to workers goroutines and returns one verdict
// per event, in the same order. workers < 1 uses the verifyWorkers key of the
// config set with SetConfig, or 4 when there is none.
func VerifyBatch(evs []*events.Event, workers int) []bool {
	if workers < 1 {
		workers = configInt("verifyWorkers", defaultVerifyWorkers)
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(evs) {
		workers = len(evs)
	}
	queue := library.NewStack[int](len(evs))
	for i := range evs {
		queue.Push(i)
	}
	queueMutex := &deadlock.Mutex{}
	next := func() (int, bool) {
		queueMutex.Lock()
		defer queueMutex.Unlock()
		return queue.Pop()
	}

	results := make([]bool, len(evs))
	wg := &deadlock.WaitGroup{}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, ok := next(); ok; i, ok = next() {
				done := library.ValidateSaneExecutionTime()
				results[i] = events.VerifyEvent(evs[i])
				done()
			}
		}()
	}
	wg.Wait()
	return results
}
