package service

import "time"

// Export for testing
var RetryAfterSeconds = retryAfterSeconds
var NormalizePostURL = normalizePostURL
var NewPostID = newPostID

type KeyedMutex = keyedMutex

var NewKeyedMutex = newKeyedMutex

func (k *keyedMutex) Size() int { return k.size() }

func NewBcryptHasherHelper(cost int) interface {
	Hash(key string) (string, error)
	Verify(hash, key string) bool
} {
	return newBcryptHasher(cost)
}

// FakeClock is a settable clock for rate-limit tests.
type FakeClock struct {
	Current time.Time
}

func (c *FakeClock) Now() time.Time { return c.Current }

func (c *FakeClock) Advance(d time.Duration) { c.Current = c.Current.Add(d) }
