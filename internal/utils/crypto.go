// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateTransactionCode produces a human-readable unique code for an
// escrow transaction, e.g. TXN-20260115093045-A3F2C1.
func GenerateTransactionCode() string {
	suffix, err := randomHex(3)
	if err != nil {
		// Timestamp alone still gives a usable code.
		suffix = "000000"
	}
	return fmt.Sprintf("TXN-%s-%s", time.Now().UTC().Format("20060102150405"), strings.ToUpper(suffix))
}

// GenerateSecureToken returns n random bytes hex-encoded.
func GenerateSecureToken(n int) (string, error) {
	return randomHex(n)
}

func randomHex(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
