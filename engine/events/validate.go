package events

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

var lowerHex64 = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Validate reports whether candidate has the shape of an unsigned event:
// integer kind (non-negative) and created_at, string content, a 64 character
// lowercase hex pubkey, and tags that are arrays of strings.
//
// candidate may be raw JSON ([]byte, json.RawMessage or string), one of the
// event types of this package, or any value that encoding/json can marshal,
// such as the map[string]any produced by json.Unmarshal. Validate never
// panics; anything it cannot interpret is invalid.
func Validate(candidate any) bool {
	return check(candidate) == nil
}

func check(candidate any) error {
	switch c := candidate.(type) {
	case nil:
		return invalid("event", "is missing")
	case UnsignedEvent:
		return c.check()
	case *UnsignedEvent:
		if c == nil {
			return invalid("event", "is missing")
		}
		return c.check()
	case *Event:
		if c == nil {
			return invalid("event", "is missing")
		}
		return c.Unsigned().check()
	case []byte:
		_, err := decodeUnsigned(c)
		return err
	case json.RawMessage:
		_, err := decodeUnsigned(c)
		return err
	case string:
		_, err := decodeUnsigned([]byte(c))
		return err
	default:
		b, err := json.Marshal(c)
		if err != nil {
			return invalid("event", "is not representable as JSON")
		}
		_, err = decodeUnsigned(b)
		return err
	}
}

func (u UnsignedEvent) check() error {
	if u.Kind < 0 {
		return invalid("kind", "must not be negative")
	}
	if !lowerHex64.MatchString(u.PubKey) {
		return invalid("pubkey", "must be 64 lowercase hex characters")
	}
	if !utf8.ValidString(u.Content) {
		return invalid("content", "is not valid UTF-8")
	}
	for i, tag := range u.Tags {
		for j, s := range tag {
			if !utf8.ValidString(s) {
				return invalid(fmt.Sprintf("tags[%d][%d]", i, j), "is not valid UTF-8")
			}
		}
	}
	return nil
}

// ParseUnsignedEvent decodes untrusted JSON into an UnsignedEvent. Fields other
// than pubkey, created_at, kind, tags and content are ignored.
func ParseUnsignedEvent(raw []byte) (UnsignedEvent, error) {
	root, err := decodeUnsigned(raw)
	if err != nil {
		return UnsignedEvent{}, err
	}
	return unsignedFrom(root), nil
}

// ParseEvent decodes untrusted JSON into an Event. id and sig are optional but
// must be strings when present. The event is not verified.
func ParseEvent(raw []byte) (*Event, error) {
	root, err := decodeUnsigned(raw)
	if err != nil {
		return nil, err
	}
	u := unsignedFrom(root)
	e := &Event{
		PubKey:    u.PubKey,
		CreatedAt: u.CreatedAt,
		Kind:      u.Kind,
		Tags:      u.Tags,
		Content:   u.Content,
	}
	for _, field := range []struct {
		name string
		dst  *string
	}{{"id", &e.ID}, {"sig", &e.Sig}} {
		r := root.Get(field.name)
		if !r.Exists() {
			continue
		}
		if r.Type != gjson.String {
			return nil, invalid(field.name, "must be a string")
		}
		*field.dst = r.Str
	}
	return e, nil
}

// decodeUnsigned checks raw against the event model without unmarshalling it.
func decodeUnsigned(raw []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, invalid("event", "is not valid JSON")
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return gjson.Result{}, invalid("event", "is not a JSON object")
	}
	kind, err := integer(root.Get("kind"), "kind", strconv.IntSize)
	if err != nil {
		return gjson.Result{}, err
	}
	if kind < 0 {
		return gjson.Result{}, invalid("kind", "must not be negative")
	}
	if _, err := integer(root.Get("created_at"), "created_at", 64); err != nil {
		return gjson.Result{}, err
	}
	if err := str(root.Get("content"), "content"); err != nil {
		return gjson.Result{}, err
	}
	pubkey := root.Get("pubkey")
	if err := str(pubkey, "pubkey"); err != nil {
		return gjson.Result{}, err
	}
	if !lowerHex64.MatchString(pubkey.Str) {
		return gjson.Result{}, invalid("pubkey", "must be 64 lowercase hex characters")
	}
	tags := root.Get("tags")
	if !tags.IsArray() {
		return gjson.Result{}, invalid("tags", "must be an array")
	}
	var tagErr error
	i := 0
	tags.ForEach(func(_, tag gjson.Result) bool {
		if !tag.IsArray() {
			tagErr = invalid(fmt.Sprintf("tags[%d]", i), "must be an array")
			return false
		}
		j := 0
		tag.ForEach(func(_, v gjson.Result) bool {
			tagErr = str(v, fmt.Sprintf("tags[%d][%d]", i, j))
			j++
			return tagErr == nil
		})
		i++
		return tagErr == nil
	})
	if tagErr != nil {
		return gjson.Result{}, tagErr
	}
	return root, nil
}

// unsignedFrom builds an UnsignedEvent from a result accepted by decodeUnsigned.
func unsignedFrom(root gjson.Result) UnsignedEvent {
	kind, _ := strconv.ParseInt(root.Get("kind").Raw, 10, strconv.IntSize)
	createdAt, _ := strconv.ParseInt(root.Get("created_at").Raw, 10, 64)
	u := UnsignedEvent{
		PubKey:    root.Get("pubkey").Str,
		CreatedAt: Timestamp(createdAt),
		Kind:      int(kind),
		Content:   root.Get("content").Str,
	}
	list := root.Get("tags").Array()
	u.Tags = make(Tags, 0, len(list))
	for _, t := range list {
		values := t.Array()
		tag := make(Tag, 0, len(values))
		for _, v := range values {
			tag = append(tag, v.Str)
		}
		u.Tags = append(u.Tags, tag)
	}
	return u
}

func integer(r gjson.Result, field string, bitSize int) (int64, error) {
	if !r.Exists() {
		return 0, invalid(field, "is missing")
	}
	if r.Type != gjson.Number {
		return 0, invalid(field, "must be an integer")
	}
	n, err := strconv.ParseInt(r.Raw, 10, bitSize)
	if err != nil {
		return 0, invalid(field, "must be an integer")
	}
	return n, nil
}

func str(r gjson.Result, field string) error {
	if !r.Exists() {
		return invalid(field, "is missing")
	}
	if r.Type != gjson.String {
		return invalid(field, "must be a string")
	}
	if !utf8.ValidString(r.Str) {
		return invalid(field, "is not valid UTF-8")
	}
	return nil
}
