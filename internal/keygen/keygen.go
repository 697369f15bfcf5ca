// Package keygen produces random identifiers from an alphabet without
// visually confusable characters (no 0, 1, l, o).
package keygen

import (
	"crypto/rand"
	"fmt"
)

const Alphabet = "abcdefghijkmnpqrstuvwxyz23456789"

const (
	FeedIDLength   = 8
	WriteKeyLength = 12
	PostIDLength   = 6
)

// Generate returns n random characters from Alphabet.
// len(Alphabet) divides 256, so masking a random byte is unbiased.
func Generate(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("keygen: invalid length %d", n)
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("keygen: read random: %w", err)
	}
	for i, b := range buf {
		buf[i] = Alphabet[int(b)%len(Alphabet)]
	}
	return string(buf), nil
}

func FeedID() (string, error)   { return Generate(FeedIDLength) }
func WriteKey() (string, error) { return Generate(WriteKeyLength) }
func PostID() (string, error)   { return Generate(PostIDLength) }
