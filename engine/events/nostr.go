package events

import (
	"github.com/nbd-wtf/go-nostr"
)

// ToNostr converts e into a go-nostr event. The verification cache is not carried over.
func (e *Event) ToNostr() nostr.Event {
	n := nostr.Event{
		ID:        e.ID,
		PubKey:    e.PubKey,
		CreatedAt: nostr.Timestamp(e.CreatedAt),
		Kind:      e.Kind,
		Tags:      make(nostr.Tags, 0, len(e.Tags)),
		Content:   e.Content,
		Sig:       e.Sig,
	}
	for _, tag := range e.Tags {
		n.Tags = append(n.Tags, nostr.Tag(append([]string(nil), tag...)))
	}
	return n
}

// FromNostr converts a go-nostr event. The result is unverified.
func FromNostr(n nostr.Event) *Event {
	e := &Event{
		ID:        n.ID,
		PubKey:    n.PubKey,
		CreatedAt: Timestamp(n.CreatedAt),
		Kind:      n.Kind,
		Tags:      make(Tags, 0, len(n.Tags)),
		Content:   n.Content,
		Sig:       n.Sig,
	}
	for _, tag := range n.Tags {
		e.Tags = append(e.Tags, Tag(append([]string(nil), tag...)))
	}
	return e
}
