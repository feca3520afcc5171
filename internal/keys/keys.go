package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	bip39 "github.com/cosmos/go-bip39"
	"github.com/mr-tron/base58"
)

const keyPrefix = "ed25519:"

// KeyPair is an ed25519 signing key pair in the ledger's wire encoding.
// Pairs come from exactly two places: deterministically from a seed phrase
// (long-lived account credentials) or freshly random (one-time claim keys).
type KeyPair struct {
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

// FromSeedPhrase derives the key pair for a seed phrase. Same phrase, same
// pair; no side effects.
func FromSeedPhrase(phrase string) (KeyPair, error) {
	if strings.TrimSpace(phrase) == "" {
		return KeyPair{}, fmt.Errorf("empty seed phrase")
	}
	seed := bip39.NewSeed(phrase, "")
	priv := ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize])
	return KeyPair{pub: priv.Public().(ed25519.PublicKey), priv: priv}, nil
}

// NewRandomKeyPair returns a fresh unpredictable pair. Used only for one-time
// linkdrop claims, never persisted as an account credential.
func NewRandomKeyPair() (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, fmt.Errorf("generate key pair: %w", err)
	}
	return KeyPair{pub: pub, priv: priv}, nil
}

// PublicKey returns the key in "ed25519:<base58>" form.
func (kp KeyPair) PublicKey() string {
	return keyPrefix + base58.Encode(kp.pub)
}

// SecretKey returns the full 64-byte private key in "ed25519:<base58>" form.
// Sensitive: callers hand this to a claimant, never to a log.
func (kp KeyPair) SecretKey() string {
	return keyPrefix + base58.Encode(kp.priv)
}

// Raw exposes the underlying ed25519 keys for signing and verification.
func (kp KeyPair) Raw() (ed25519.PublicKey, ed25519.PrivateKey) {
	return kp.pub, kp.priv
}

const accountIDPrefix = "test-harness-account"

// NewTestAccountID returns an identifier unique with high probability:
// namespace prefix, millisecond timestamp, random suffix. Collisions are
// possible only under clock manipulation or extreme concurrency and are not
// retried.
func NewTestAccountID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		panic(fmt.Sprintf("read random: %v", err))
	}
	return fmt.Sprintf("%s-%d-%d", accountIDPrefix, time.Now().UnixMilli(), n.Int64())
}

// SubAccountSeedPhrase returns the deterministic seed phrase of a sub-account:
// the sub-account id prefixed onto the parent's base phrase.
func SubAccountSeedPhrase(subID, parentSeedPhrase string) string {
	return subID + " " + parentSeedPhrase
}
