package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/rryowa/billtracker/internal/util"
)

// Fingerprint is the storable form of a raw refresh secret: the hex SHA-256
// digest. The raw secret itself is never persisted.
func Fingerprint(rawSecret string) string {
	sum := sha256.Sum256([]byte(rawSecret))
	return hex.EncodeToString(sum[:])
}

func newRawSecret() (string, error) {
	buf := make([]byte, util.RawTokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
