package game

import (
	"errors"
	"fmt"
)

// IllegalMoveError is returned when a column is out of range, already full or
// the marker does not belong to a player. The board is never modified.
type IllegalMoveError struct {
	Column int
	Marker Marker
	Reason string
}

// Error implements the error interface.
func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move: column %d marker %s: %s", e.Column, e.Marker, e.Reason)
}

// InvariantError signals a defect in the engine or the driver, such as a
// mutation after the game ended or a ply count past the size of the grid.
type InvariantError struct {
	Msg string
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return "invariant violation: " + e.Msg
}

// GeometryError is returned when a board is too small for four in a row.
type GeometryError struct {
	Height int
	Width  int
}

// Error implements the error interface.
func (e *GeometryError) Error() string {
	return fmt.Sprintf("degenerate geometry %dx%d: need at least %dx%d", e.Height, e.Width, lineLength, lineLength)
}

// =============================================================================

// IsIllegalMove reports whether an IllegalMoveError exists in the error chain.
func IsIllegalMove(err error) bool {
	var ime *IllegalMoveError
	return errors.As(err, &ime)
}

// IsInvariant reports whether an InvariantError exists in the error chain.
func IsInvariant(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

func invariantf(format string, v ...any) error {
	return &InvariantError{Msg: fmt.Sprintf(format, v...)}
}
