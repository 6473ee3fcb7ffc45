package helpers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiangplus/nostr-snap/engine/events"
	"github.com/jiangplus/nostr-snap/engine/library"
)

const testKey = "5c6c5b6b0b6a8b4e5e7b4f0a1c2d3e4f5a6b7c8d9e0f1a2b3c4d5e6f7a8b9c0d"

func TestDeleteEvent(t *testing.T) {
	a, b := strings.Repeat("a", 64), strings.Repeat("b", 64)
	tmpl := DeleteEvent([]library.Sha256{a, b}, "posted by mistake")
	assert.Equal(t, events.KindDeletion, tmpl.Kind)
	assert.Equal(t, "posted by mistake", tmpl.Content)
	assert.Equal(t, events.Tags{{"e", a}, {"e", b}}, tmpl.Tags)
	assert.NotZero(t, tmpl.CreatedAt)

	signer, err := events.NewKeySigner(testKey)
	require.NoError(t, err)
	e, err := SignTemplate(context.Background(), signer, tmpl)
	require.NoError(t, err)
	assert.True(t, e.Verify())
	assert.Equal(t, tmpl.Tags, e.Tags)
}

func TestSignTemplateError(t *testing.T) {
	signer, err := events.NewKeySigner(testKey)
	require.NoError(t, err)
	_, err = SignTemplate(context.Background(), signer, events.EventTemplate{Kind: -1})
	assert.ErrorIs(t, err, events.ErrValidation)
}

func TestReply(t *testing.T) {
	root, err := events.Sign(events.EventTemplate{Kind: 1, Content: "root", CreatedAt: 1}, testKey)
	require.NoError(t, err)

	first := Reply(root, "first")
	assert.Equal(t, events.Tags{{"e", root.ID, "", "root"}, {"p", root.PubKey}}, first.Tags)

	signer, err := events.NewKeySigner(testKey)
	require.NoError(t, err)
	parent, err := SignTemplate(context.Background(), signer, first)
	require.NoError(t, err)

	second := Reply(parent, "second")
	assert.Equal(t, events.Tags{
		{"e", root.ID, "", "root"},
		{"e", parent.ID, "", "reply"},
		{"p", parent.PubKey},
	}, second.Tags)
	reply, ok := events.FirstReply(&events.Event{Tags: second.Tags})
	assert.True(t, ok)
	assert.Equal(t, parent.ID, reply)
}
