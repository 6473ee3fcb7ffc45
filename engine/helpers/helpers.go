package helpers

import (
	"context"
	"fmt"

	"github.com/jiangplus/nostr-snap/engine/events"
	"github.com/jiangplus/nostr-snap/engine/library"
)

// DeleteEvent builds a kind 5 deletion request for ids with reason as content.
func DeleteEvent(ids []library.Sha256, reason string) events.EventTemplate {
	t := events.EventTemplate{
		CreatedAt: events.Now(),
		Kind:      events.KindDeletion,
		Tags:      make(events.Tags, 0, len(ids)),
		Content:   reason,
	}
	for _, id := range ids {
		t.Tags = append(t.Tags, events.Tag{"e", id})
	}
	return t
}

// SignTemplate signs t with signer and returns the finished event.
func SignTemplate(ctx context.Context, signer events.Signer, t events.EventTemplate) (*events.Event, error) {
	e := &events.Event{
		CreatedAt: t.CreatedAt,
		Kind:      t.Kind,
		Tags:      t.Tags,
		Content:   t.Content,
	}
	if err := signer.SignEvent(ctx, e); err != nil {
		return nil, fmt.Errorf("sign kind %d event: %w", t.Kind, err)
	}
	return e, nil
}

// Reply builds a kind 1 reply to parent. A parent without a root marked e tag
// becomes the root of the thread.
func Reply(parent *events.Event, content string) events.EventTemplate {
	t := events.EventTemplate{
		CreatedAt: events.Now(),
		Kind:      events.KindTextNote,
		Content:   content,
	}
	root := ""
	for _, tag := range parent.Tags {
		if tag.Key() == "e" && len(tag) >= 4 && tag[3] == "root" {
			root = tag.Value()
			break
		}
	}
	if root == "" {
		t.Tags = append(t.Tags, events.Tag{"e", parent.ID, "", "root"})
	} else {
		t.Tags = append(t.Tags,
			events.Tag{"e", root, "", "root"},
			events.Tag{"e", parent.ID, "", "reply"},
		)
	}
	t.Tags = append(t.Tags, events.Tag{"p", parent.PubKey})
	return t
}
