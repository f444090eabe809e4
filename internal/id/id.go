// Package id mints the short random identifiers carried by dataset
// snapshots, exports and event stream clients.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	PrefixSnapshot = "ds"
	PrefixExport   = "exp"
	PrefixClient   = "sse"
)

// alphabet avoids '-' and '_' so the prefix separator stays unambiguous
// and ids survive a double-click select in the dashboard.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Length of the random part.
const Length = 16

// Generate returns prefix, a dash and Length random characters,
// e.g. "ds-4f9k2m0x7q1b8z3c".
func Generate(prefix string) (string, error) {
	s, err := gonanoid.Generate(alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("id %s: %w", prefix, err)
	}
	return prefix + "-" + s, nil
}

// MustGenerate panics when the system has no randomness to offer.
func MustGenerate(prefix string) string {
	s, err := Generate(prefix)
	if err != nil {
		panic(err)
	}
	return s
}
