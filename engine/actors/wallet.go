package actors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nbd-wtf/go-nostr/nip06"
	"github.com/nbd-wtf/go-nostr/nip19"
	"github.com/sasha-s/go-deadlock"

	"github.com/jiangplus/nostr-snap/engine/events"
	"github.com/jiangplus/nostr-snap/engine/library"
)

var ErrNoWallet = errors.New("no privateKey or seedWords configured")

var currentWallet library.Wallet
var currentWalletMutex = &deadlock.Mutex{}

// MyWallet returns the wallet described by the privateKey or seedWords config
// keys. Keys are never written anywhere; a caller without a configured key gets
// ErrNoWallet and can create one with NewWallet.
func MyWallet() (library.Wallet, error) {
	currentWalletMutex.Lock()
	defer currentWalletMutex.Unlock()
	if len(currentWallet.PrivateKey) > 0 {
		return currentWallet, nil
	}
	c := MakeOrGetConfig()
	var w library.Wallet
	var err error
	switch {
	case c.GetString("privateKey") != "":
		w, err = WalletFromKey(c.GetString("privateKey"))
	case c.GetString("seedWords") != "":
		w, err = WalletFromSeedWords(c.GetString("seedWords"))
	default:
		return library.Wallet{}, ErrNoWallet
	}
	if err != nil {
		return library.Wallet{}, err
	}
	currentWallet = w
	return currentWallet, nil
}

// MySigner returns a signer for MyWallet.
func MySigner() (events.Signer, error) {
	w, err := MyWallet()
	if err != nil {
		return nil, err
	}
	return events.NewKeySigner(w.PrivateKey)
}

// ForgetWallet drops the cached wallet so the next MyWallet reads the config again.
func ForgetWallet() {
	currentWalletMutex.Lock()
	defer currentWalletMutex.Unlock()
	currentWallet = library.Wallet{}
}

// WalletFromKey accepts a private key as hex or nsec.
func WalletFromKey(key string) (library.Wallet, error) {
	sk, err := DecodePrivateKey(key)
	if err != nil {
		return library.Wallet{}, err
	}
	pk, err := events.PublicKey(sk)
	if err != nil {
		return library.Wallet{}, err
	}
	return library.Wallet{PrivateKey: sk, Account: pk}, nil
}

// WalletFromSeedWords derives the first nip06 key from a bip39 mnemonic.
func WalletFromSeedWords(words string) (library.Wallet, error) {
	words = strings.Join(strings.Fields(words), " ")
	if !nip06.ValidateWords(words) {
		return library.Wallet{}, fmt.Errorf("seed words are not a valid mnemonic")
	}
	sk, err := nip06.PrivateKeyFromSeed(nip06.SeedFromWords(words))
	if err != nil {
		return library.Wallet{}, fmt.Errorf("derive key from seed words: %w", err)
	}
	w, err := WalletFromKey(sk)
	if err != nil {
		return library.Wallet{}, err
	}
	w.SeedWords = words
	return w, nil
}

// NewWallet creates a fresh wallet, from new seed words if withSeed is set.
func NewWallet(withSeed bool) (library.Wallet, error) {
	if !withSeed {
		return WalletFromKey(events.GeneratePrivateKey())
	}
	words, err := nip06.GenerateSeedWords()
	if err != nil {
		return library.Wallet{}, fmt.Errorf("generate seed words: %w", err)
	}
	return WalletFromSeedWords(words)
}

// DecodePrivateKey returns the hex form of a hex or nsec private key.
func DecodePrivateKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, "nsec1") {
		prefix, value, err := nip19.Decode(key)
		if err != nil {
			return "", &events.KeyError{Reason: "bad nsec", Err: err}
		}
		s, ok := value.(string)
		if prefix != "nsec" || !ok {
			return "", &events.KeyError{Reason: "bad nsec"}
		}
		key = s
	}
	if _, err := events.ParsePrivateKey(key); err != nil {
		return "", err
	}
	return key, nil
}

// DecodePublicKey returns the hex form of a hex or npub public key.
func DecodePublicKey(key string) (library.Account, error) {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, "npub1") {
		prefix, value, err := nip19.Decode(key)
		if err != nil {
			return "", fmt.Errorf("decode npub: %w", err)
		}
		s, ok := value.(string)
		if prefix != "npub" || !ok {
			return "", fmt.Errorf("%s is not an npub", key)
		}
		key = s
	}
	if _, err := events.ParsePublicKey(key); err != nil {
		return "", err
	}
	return key, nil
}

func Npub(account library.Account) (string, error) {
	return nip19.EncodePublicKey(account)
}

func Nsec(privateKey string) (string, error) {
	return nip19.EncodePrivateKey(privateKey)
}
