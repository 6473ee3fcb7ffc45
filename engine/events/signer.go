package events

import (
	"context"
)

// User is anything with a public key.
type User interface {
	GetPublicKey(ctx context.Context) (string, error)
}

// Signer is a User that can also sign events.
type Signer interface {
	User

	// SignEvent sets the ID, PubKey and Sig fields of evt.
	SignEvent(ctx context.Context, evt *Event) error
}

// KeySigner is a Signer holding a private key in memory.
type KeySigner struct {
	privateKey string
	publicKey  string
}

func NewKeySigner(privateKey string) (*KeySigner, error) {
	pk, err := PublicKey(privateKey)
	if err != nil {
		return nil, err
	}
	return &KeySigner{privateKey: privateKey, publicKey: pk}, nil
}

func (s *KeySigner) GetPublicKey(ctx context.Context) (string, error) {
	return s.publicKey, nil
}

func (s *KeySigner) SignEvent(ctx context.Context, evt *Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	signed, err := Sign(evt.Template(), s.privateKey)
	if err != nil {
		return err
	}
	evt.ID = signed.ID
	evt.PubKey = signed.PubKey
	evt.Sig = signed.Sig
	evt.remember(true)
	return nil
}
