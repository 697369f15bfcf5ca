package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type keyHasher interface {
	Hash(key string) (string, error)
	Verify(hash, key string) bool
}

type bcryptHasher struct {
	cost int
}

func newBcryptHasher(cost int) keyHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return bcryptHasher{cost: cost}
}

func (h bcryptHasher) Hash(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash write key: %w", err)
	}
	return string(hash), nil
}

func (h bcryptHasher) Verify(hash, key string) bool {
	if hash == "" || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}
