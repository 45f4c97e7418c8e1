package invitation

import (
	"crypto/rand"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// TokenBytes is the entropy of a token.
const TokenBytes = 32

// NewToken returns a fresh opaque token.
func NewToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("invitation: generate token: %w", err)
	}
	return base58.Encode(b), nil
}

// HashToken returns the at-rest form of a token.
// Tokens that do not decode to TokenBytes bytes fail with ErrInvalidToken.
func HashToken(token string) ([]byte, error) {
	raw, err := base58.Decode(token)
	if err != nil || len(raw) != TokenBytes {
		return nil, ErrInvalidToken
	}
	sum := blake2b.Sum256(raw)
	return sum[:], nil
}
