package wallet

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"errors"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	_Iterations = 100000
	_Salt       = "TON default seed"
)

var ErrInvalidSeed = errors.New("seed should contain at least 12 words")

// SeedToKey derives the wallet signing key from a mnemonic phrase.
// Deterministic, the same phrase always yields the same key.
func SeedToKey(seed []string) (ed25519.PrivateKey, error) {
	if len(seed) < 12 {
		return nil, ErrInvalidSeed
	}

	mac := hmac.New(sha512.New, []byte(strings.Join(seed, " ")))
	hash := mac.Sum(nil)

	k := pbkdf2.Key(hash, []byte(_Salt), _Iterations, 32, sha512.New)

	return ed25519.NewKeyFromSeed(k), nil
}
