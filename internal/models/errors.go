package models

import (
	"errors"
	"fmt"
)

// NotFoundError reports an operation against an id that does not exist in
// the referenced collection. Deletes and toggles on missing store entries
// are deliberately silent no-ops and never produce this error; only lookups
// against the catalog (and other reference collections) do.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// NewNotFound builds a NotFoundError for the given resource and id.
func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
