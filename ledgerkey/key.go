// Package ledgerkey provides the AccountID codec this repository
// actually needs. The teacher's crypto package (crypto.ULTKey)
// encodes a type-tagged key because it carries both AccountID and
// Seed values through signing; this repository never signs a
// transaction envelope (see DESIGN.md) and has exactly one kind of
// key, so an AccountID is encoded as nothing more than a bare
// base58'd 32-byte payload - there is no type tag to carry.
package ledgerkey

import (
	"crypto/rand"
	"errors"
	"io"

	b58 "github.com/mr-tron/base58"
	"golang.org/x/crypto/ed25519"
)

// accountIDSize is the payload width: this repository sizes an
// AccountID the same as an ed25519 public key, without requiring that
// it actually be one.
const accountIDSize = 32

// ErrInvalidKey is returned for any string that does not decode to a
// well-formed AccountID payload.
var ErrInvalidKey = errors.New("invalid account id")

// DecodeAccountID decodes a base58-encoded AccountID into its raw
// fixed-width payload.
func DecodeAccountID(id string) ([accountIDSize]byte, error) {
	var out [accountIDSize]byte
	if id == "" {
		return out, ErrInvalidKey
	}
	b, err := b58.Decode(id)
	if err != nil || len(b) != accountIDSize {
		return out, ErrInvalidKey
	}
	copy(out[:], b)
	return out, nil
}

// EncodeAccountID base58-encodes a raw AccountID payload.
func EncodeAccountID(payload [accountIDSize]byte) string {
	return b58.Encode(payload[:])
}

// IsValidAccountID reports whether id decodes to a well-formed
// AccountID payload. This is the "syntactically valid AccountID"
// predicate asset.IsValid relies on for issuer validity.
func IsValidAccountID(id string) bool {
	_, err := DecodeAccountID(id)
	return err == nil
}

// NewAccountID generates a fresh random AccountID string, used by
// tests to mint distinct accounts without caring about any underlying
// signing key.
func NewAccountID() (string, error) {
	var seed [accountIDSize]byte
	if _, err := io.ReadFull(rand.Reader, seed[:]); err != nil {
		return "", err
	}
	privateKey := ed25519.NewKeyFromSeed(seed[:])
	publicKey := privateKey.Public().(ed25519.PublicKey)

	var payload [accountIDSize]byte
	copy(payload[:], publicKey)

	return EncodeAccountID(payload), nil
}
