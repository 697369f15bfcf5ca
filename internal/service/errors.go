package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalid      = errors.New("invalid")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
	ErrInternal     = errors.New("internal error")

	ErrAlreadyInitialized = fmt.Errorf("feed already initialized: %w", ErrConflict)
	ErrFeedNotFound       = fmt.Errorf("feed %w", ErrNotFound)
	ErrPostNotFound       = fmt.Errorf("post %w", ErrNotFound)
	ErrContentRequired    = fmt.Errorf("content required: %w", ErrInvalid)
)

// RateLimitError carries the number of whole seconds until the next post is accepted.
type RateLimitError struct {
	RetryAfter int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("Rate limited. Wait %d seconds.", e.RetryAfter)
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}
