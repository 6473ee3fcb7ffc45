package events

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// GeneratePrivateKey returns a new hex encoded secp256k1 private key drawn from
// crypto/rand.
func GeneratePrivateKey() string {
	sk, err := btcec.NewPrivateKey()
	if err != nil {
		// crypto/rand is the only entropy source we accept.
		panic(fmt.Sprintf("generate private key: %s", err))
	}
	return hex.EncodeToString(sk.Serialize())
}

// PublicKey returns the hex x-only public key for a hex private key.
func PublicKey(privateKey string) (string, error) {
	sk, err := ParsePrivateKey(privateKey)
	if err != nil {
		return "", err
	}
	return publicKeyHex(sk), nil
}

// ParsePrivateKey decodes a 64 character hex private key. The scalar must be
// in [1, n-1]; btcec would otherwise silently reduce it.
func ParsePrivateKey(privateKey string) (*btcec.PrivateKey, error) {
	if len(privateKey) != 64 {
		return nil, &KeyError{Reason: fmt.Sprintf("expected 64 hex characters, got %d", len(privateKey))}
	}
	b, err := hex.DecodeString(privateKey)
	if err != nil {
		return nil, &KeyError{Reason: "not hex", Err: err}
	}
	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(b); overflow || scalar.IsZero() {
		return nil, &KeyError{Reason: "not a valid secp256k1 scalar"}
	}
	sk, _ := btcec.PrivKeyFromBytes(b)
	return sk, nil
}

// ParsePublicKey decodes a 64 character lowercase hex x-only public key and
// checks that it is a point on the curve.
func ParsePublicKey(pubkey string) (*btcec.PublicKey, error) {
	if !lowerHex64.MatchString(pubkey) {
		return nil, invalid("pubkey", "must be 64 lowercase hex characters")
	}
	b, _ := hex.DecodeString(pubkey)
	pk, err := schnorr.ParsePubKey(b)
	if err != nil {
		return nil, invalid("pubkey", "is not a point on secp256k1")
	}
	return pk, nil
}

func publicKeyHex(sk *btcec.PrivateKey) string {
	return hex.EncodeToString(schnorr.SerializePubKey(sk.PubKey()))
}
