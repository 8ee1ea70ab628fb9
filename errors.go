package sprotty

import (
	"errors"
	"fmt"
)

// Sentinel errors for the model package.
var (
	// ErrNilElement is returned when a nil element is passed to an
	// operation that requires one.
	ErrNilElement = errors.New("sprotty: nil element")

	// ErrNotAChild is returned when removing an element from a parent
	// that does not contain it.
	ErrNotAChild = errors.New("sprotty: element is not a child of this parent")
)

// DuplicateIDError is returned when an element id is added to an index
// that already contains it. Element ids must be unique within a model.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("sprotty: duplicate element id %q", e.ID)
}
