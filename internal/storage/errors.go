package storage

import (
	"errors"
	"fmt"

	"github.com/kenbun-app/kenbundata/internal/fields"
	"github.com/kenbun-app/kenbundata/internal/schema"
)

// ErrNotFound matches every *NotFoundError.
var ErrNotFound = errors.New("entity not found")

// NotFoundError reports a lookup of an ID that is not stored.
type NotFoundError struct {
	Kind schema.Kind
	ID   fields.ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsNotFound returns true if err (or anything it wraps) is a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
