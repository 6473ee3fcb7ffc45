package events

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/jiangplus/nostr-snap/engine/library"
)

// Sign derives the pubkey for privateKey, the id of the resulting unsigned
// event and a BIP-340 schnorr signature over that id. The returned event is
// already marked as verified. Tags are copied, so later changes to t do not
// affect the event.
func Sign(t EventTemplate, privateKey string) (*Event, error) {
	sk, err := ParsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	return sign(t.Unsigned(publicKeyHex(sk)), sk)
}

// SignUnsigned signs u with privateKey. An empty u.PubKey is filled in; any
// other pubkey must belong to privateKey.
func SignUnsigned(u UnsignedEvent, privateKey string) (*Event, error) {
	sk, err := ParsePrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	pk := publicKeyHex(sk)
	if u.PubKey != "" && u.PubKey != pk {
		return nil, &SigningError{Reason: fmt.Sprintf("pubkey %s does not belong to the signing key", u.PubKey)}
	}
	u.PubKey = pk
	return sign(u, sk)
}

// FinalizeEvent signs t with privateKey.
//
// Deprecated: use Sign.
func FinalizeEvent(t EventTemplate, privateKey string) (*Event, error) {
	library.LogCLI("FinalizeEvent is deprecated, use Sign", 2)
	return Sign(t, privateKey)
}

func sign(u UnsignedEvent, sk *btcec.PrivateKey) (*Event, error) {
	u.Tags = u.Tags.Clone()
	id, err := DeriveID(u)
	if err != nil {
		return nil, err
	}
	digest, err := hex.DecodeString(id)
	if err != nil {
		return nil, &SigningError{Reason: "could not decode event id", Err: err}
	}
	sig, err := schnorr.Sign(sk, digest)
	if err != nil {
		return nil, &SigningError{Reason: "schnorr signature failed", Err: err}
	}
	e := &Event{
		ID:        id,
		PubKey:    u.PubKey,
		CreatedAt: u.CreatedAt,
		Kind:      u.Kind,
		Tags:      u.Tags,
		Content:   u.Content,
		Sig:       hex.EncodeToString(sig.Serialize()),
	}
	e.remember(true)
	return e, nil
}
