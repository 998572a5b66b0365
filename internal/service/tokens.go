package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// Token prefixes
const (
	AccessTokenPrefix  = "at_"
	RefreshTokenPrefix = "rt_"
)

const tokenBytes = 32

// generateToken returns an opaque token with prefix and the hash to store
func generateToken(prefix string) (string, string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	token := prefix + base64.RawURLEncoding.EncodeToString(b)
	return token, hashToken(token), nil
}

// hashToken returns the hex sha256 of token
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// wellFormedToken rejects tokens that could never have been issued before any lookup
func wellFormedToken(token, prefix string) bool {
	return strings.HasPrefix(token, prefix) &&
		base64.RawURLEncoding.DecodedLen(len(token)-len(prefix)) == tokenBytes
}
