// Package events implements nostr events: the event model and its validity
// predicate, the canonical serialization that event ids are derived from, and
// schnorr signing and verification over those ids.
package events

import (
	"encoding/json"
	"sync/atomic"
	"time"
)

// Timestamp is a unix time in seconds.
type Timestamp int64

func Now() Timestamp {
	return Timestamp(time.Now().Unix())
}

func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t), 0)
}

// EventTemplate is what a caller fills in before a signing key is known.
type EventTemplate struct {
	CreatedAt Timestamp `json:"created_at"`
	Kind      int       `json:"kind"`
	Tags      Tags      `json:"tags"`
	Content   string    `json:"content"`
}

// UnsignedEvent is an EventTemplate bound to an author. It carries every field
// the event id is derived from.
type UnsignedEvent struct {
	PubKey    string    `json:"pubkey"`
	CreatedAt Timestamp `json:"created_at"`
	Kind      int       `json:"kind"`
	Tags      Tags      `json:"tags"`
	Content   string    `json:"content"`
}

// Event is a signed nostr event.
//
// ID, PubKey, CreatedAt, Kind, Tags and Content must not be changed once the
// event has been signed. The result of Verify is cached on the value and is
// never serialized.
type Event struct {
	ID        string    `json:"id"`
	PubKey    string    `json:"pubkey"`
	CreatedAt Timestamp `json:"created_at"`
	Kind      int       `json:"kind"`
	Tags      Tags      `json:"tags"`
	Content   string    `json:"content"`
	Sig       string    `json:"sig"`

	verified atomic.Value // *verdict
}

// Unsigned binds the template to pubkey.
func (t EventTemplate) Unsigned(pubkey string) UnsignedEvent {
	return UnsignedEvent{
		PubKey:    pubkey,
		CreatedAt: t.CreatedAt,
		Kind:      t.Kind,
		Tags:      t.Tags,
		Content:   t.Content,
	}
}

func (u UnsignedEvent) Template() EventTemplate {
	return EventTemplate{
		CreatedAt: u.CreatedAt,
		Kind:      u.Kind,
		Tags:      u.Tags,
		Content:   u.Content,
	}
}

// Unsigned returns the fields of e that its id is derived from.
func (e *Event) Unsigned() UnsignedEvent {
	return UnsignedEvent{
		PubKey:    e.PubKey,
		CreatedAt: e.CreatedAt,
		Kind:      e.Kind,
		Tags:      e.Tags,
		Content:   e.Content,
	}
}

func (e *Event) Template() EventTemplate {
	return e.Unsigned().Template()
}

// Serialize returns the canonical serialization of e, or nil if e is not valid.
func (e *Event) Serialize() []byte {
	b, err := Serialize(e.Unsigned())
	if err != nil {
		return nil
	}
	return b
}

// GetID derives the id of e from its content. It returns an empty string if e
// is not valid. It does not set e.ID.
func (e *Event) GetID() string {
	id, err := DeriveID(e.Unsigned())
	if err != nil {
		return ""
	}
	return id
}

func (e *Event) String() string {
	b, err := json.Marshal(e)
	if err != nil {
		return ""
	}
	return string(b)
}
