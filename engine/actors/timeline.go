package actors

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"

	"github.com/sasha-s/go-deadlock"
	"github.com/tidwall/gjson"

	"github.com/jiangplus/nostr-snap/engine/eventlist"
	"github.com/jiangplus/nostr-snap/engine/events"
	"github.com/jiangplus/nostr-snap/engine/library"
)

const timelineMind = "timelines"

var timelineName = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

var timelineMutex = &deadlock.Mutex{}

// LoadTimeline returns the events of the named timeline, newest first. A
// timeline that has never been written is empty.
func LoadTimeline(name string) ([]*events.Event, error) {
	if !timelineName.MatchString(name) {
		return nil, fmt.Errorf("invalid timeline name %q", name)
	}
	timelineMutex.Lock()
	defer timelineMutex.Unlock()
	return loadTimeline(name)
}

// AddToTimeline verifies ev and inserts it into the named timeline. added is
// false if the timeline already held an event with the same id.
func AddToTimeline(name string, ev *events.Event) (timeline []*events.Event, added bool, err error) {
	if !timelineName.MatchString(name) {
		return nil, false, fmt.Errorf("invalid timeline name %q", name)
	}
	if !ev.Verify() {
		return nil, false, fmt.Errorf("event %s: %w", ev.ID, ErrUnverified)
	}
	timelineMutex.Lock()
	defer timelineMutex.Unlock()
	current, err := loadTimeline(name)
	if err != nil {
		return nil, false, err
	}
	timeline = eventlist.InsertDescending(current, ev)
	if len(timeline) == len(current) {
		library.LogCLI(fmt.Sprintf("event %s is already in timeline %s", ev.ID, name), 4)
		return timeline, false, nil
	}
	b, err := json.Marshal(timeline)
	if err != nil {
		return nil, false, fmt.Errorf("encode timeline %s: %w", name, err)
	}
	if err := Write(timelineMind, name, b); err != nil {
		return nil, false, err
	}
	return timeline, true, nil
}

func loadTimeline(name string) ([]*events.Event, error) {
	f, ok, err := Open(timelineMind, name)
	if err != nil || !ok {
		return nil, err
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read timeline %s: %w", name, err)
	}
	if !gjson.ValidBytes(b) {
		return nil, fmt.Errorf("timeline %s is not valid JSON", name)
	}
	list := gjson.ParseBytes(b).Array()
	timeline := make([]*events.Event, 0, len(list))
	for i, raw := range list {
		ev, err := events.ParseEvent([]byte(raw.Raw))
		if err != nil {
			return nil, fmt.Errorf("timeline %s entry %d: %w", name, i, err)
		}
		timeline = append(timeline, ev)
	}
	if !eventlist.IsSorted(timeline, eventlist.Descending) {
		return nil, fmt.Errorf("timeline %s is not sorted newest first", name)
	}
	return timeline, nil
}
