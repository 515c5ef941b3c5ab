package id

import (
	"crypto/rand"
	"encoding/hex"
)

// New returns a 16-character random hex identifier for capture runs.
func New() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms; keep the signature simple
		panic(err)
	}
	return hex.EncodeToString(b)
}
