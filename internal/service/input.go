package service

import (
	"errors"
	"fmt"

	"github.com/moldandyeast/tinyfeed/internal/model"
)

// PostSource yields the fields of a new post. The store calls it only after
// the write key and the post interval have been checked, so a request body
// is never decoded for a caller that would be refused anyway.
type PostSource func() (model.PostInput, error)

// ProfileSource yields a profile update once the write key has been checked.
type ProfileSource func() (model.ProfileUpdate, error)

// PostFields wraps an input that is already decoded.
func PostFields(input model.PostInput) PostSource {
	return func() (model.PostInput, error) { return input, nil }
}

// ProfileFields wraps an update that is already decoded.
func ProfileFields(update model.ProfileUpdate) ProfileSource {
	return func() (model.ProfileUpdate, error) { return update, nil }
}

func invalidInput(err error) error {
	if errors.Is(err, ErrInvalid) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInvalid, err)
}
