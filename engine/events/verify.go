package events

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/jiangplus/nostr-snap/engine/library"
)

// verdict is a cached verification result together with the fields it was
// computed over. Sig is not part of it: once an event has been checked,
// overwriting its signature does not change the answer.
type verdict struct {
	ok        bool
	id        string
	pubkey    string
	createdAt Timestamp
	kind      int
	tags      Tags
	content   string
}

func (v *verdict) covers(e *Event) bool {
	return v.id == e.ID &&
		v.pubkey == e.PubKey &&
		v.createdAt == e.CreatedAt &&
		v.kind == e.Kind &&
		v.content == e.Content &&
		v.tags.equal(e.Tags)
}

func (e *Event) remember(ok bool) {
	e.verified.Store(&verdict{
		ok:        ok,
		id:        e.ID,
		pubkey:    e.PubKey,
		createdAt: e.CreatedAt,
		kind:      e.Kind,
		tags:      e.Tags.Clone(),
		content:   e.Content,
	})
}

// Verify reports whether e.ID is the id of e's content and e.Sig is a valid
// signature over it by e.PubKey. The first result is cached on e and returned
// by later calls for as long as the id-bearing fields are unchanged. Malformed
// ids, keys and signatures are reported as false. Verify is safe to call from
// several goroutines on the same event.
func (e *Event) Verify() bool {
	if v, ok := e.verified.Load().(*verdict); ok && v.covers(e) {
		return v.ok
	}
	ok := e.check()
	e.remember(ok)
	return ok
}

// VerifyEvent is the function form of Event.Verify. A nil event is invalid.
func VerifyEvent(e *Event) bool {
	if e == nil {
		return false
	}
	return e.Verify()
}

func (e *Event) check() bool {
	id, err := DeriveID(e.Unsigned())
	if err != nil {
		library.LogCLI(fmt.Sprintf("event %s is malformed: %s", e.ID, err), 3)
		return false
	}
	if id != e.ID {
		library.LogCLI(fmt.Sprintf("event %s does not match its content, expected id %s", e.ID, id), 3)
		return false
	}
	return verifySignature(e.ID, e.Sig, e.PubKey)
}

func verifySignature(id, sig, pubkey string) bool {
	digest, err := hex.DecodeString(id)
	if err != nil || len(digest) != 32 {
		return false
	}
	sigBytes, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	signature, err := schnorr.ParseSignature(sigBytes)
	if err != nil {
		return false
	}
	pkBytes, err := hex.DecodeString(pubkey)
	if err != nil {
		return false
	}
	pk, err := schnorr.ParsePubKey(pkBytes)
	if err != nil {
		return false
	}
	return signature.Verify(digest, pk)
}
