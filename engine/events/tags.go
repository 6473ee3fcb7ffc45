package events

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Tag is a single tag entry, e.g. ["e", "<event id>", "<relay>", "reply"].
type Tag []string

type Tags []Tag

// Key returns the tag name, or "" for an empty tag.
func (t Tag) Key() string {
	if len(t) == 0 {
		return ""
	}
	return t[0]
}

// Value returns the first element after the tag name.
func (t Tag) Value() string {
	if len(t) < 2 {
		return ""
	}
	return t[1]
}

// StartsWith reports whether t begins with prefix. The last element of prefix
// only needs to be a prefix of the corresponding element of t.
func (t Tag) StartsWith(prefix []string) bool {
	n := len(prefix)
	if n == 0 {
		return true
	}
	if len(t) < n {
		return false
	}
	if !slices.Equal(t[:n-1], prefix[:n-1]) {
		return false
	}
	return strings.HasPrefix(t[n-1], prefix[n-1])
}

// GetFirst returns the first tag that starts with prefix.
func (tags Tags) GetFirst(prefix []string) (Tag, bool) {
	for _, tag := range tags {
		if tag.StartsWith(prefix) {
			return tag, true
		}
	}
	return nil, false
}

// GetAll returns every tag that starts with prefix.
func (tags Tags) GetAll(prefix []string) (r Tags) {
	for _, tag := range tags {
		if tag.StartsWith(prefix) {
			r = append(r, tag)
		}
	}
	return
}

// Clone returns a deep copy of tags.
func (tags Tags) Clone() Tags {
	if tags == nil {
		return nil
	}
	c := make(Tags, len(tags))
	for i, tag := range tags {
		c[i] = slices.Clone(tag)
	}
	return c
}

func (tags Tags) equal(other Tags) bool {
	return slices.EqualFunc(tags, other, func(a, b Tag) bool {
		return slices.Equal(a, b)
	})
}

// MarshalJSON encodes tags the same way the canonical serialization does, so
// a nil Tags is written as [].
func (tags Tags) MarshalJSON() ([]byte, error) {
	return tags.appendJSON(nil), nil
}

// FirstTagValue returns the value of the first tag named key.
func FirstTagValue(e *Event, key string) (string, bool) {
	if tag, ok := e.Tags.GetFirst([]string{key, ""}); ok {
		return tag.Value(), true
	}
	return "", false
}

// FirstReply returns the event id of the first e tag marked "reply".
func FirstReply(e *Event) (string, bool) {
	for _, tag := range e.Tags {
		if isReplyMarker(tag) {
			return tag[1], true
		}
	}
	return "", false
}

// AllReplies returns the event ids of every well formed e tag marked "reply".
func AllReplies(e *Event) (r []string) {
	for _, tag := range e.Tags {
		if isReplyMarker(tag) && len(tag[1]) == 64 {
			r = append(r, tag[1])
		}
	}
	return
}

func isReplyMarker(tag Tag) bool {
	return len(tag) >= 4 && tag[0] == "e" && tag[3] == "reply"
}
