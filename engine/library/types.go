package library

// Wallet holds the keys a caller signs with. SeedWords is empty when the key
// was not derived from a mnemonic.
type Wallet struct {
	PrivateKey string
	SeedWords  string
	Account    Account
}

// Account is a 64 character lowercase hex x-only public key.
type Account = string

type Sha256 = string
