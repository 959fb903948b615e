// Package shared holds small helpers used by both the CLI and the stub
// server: random secrets and wiping sensitive buffers.
package shared

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomHex returns 2*size hex characters read from crypto/rand.
func RandomHex(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Wipe zeroes b. Passwords read from the terminal are wiped once sent.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
