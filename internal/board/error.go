package board

import "errors"

var (
	ErrCapacity        = errors.New("item catalog does not fit the board")
	ErrInvalidBoard    = errors.New("invalid board")
	ErrInvalidSnapshot = errors.New("invalid board snapshot")
)

// AssertionError is raised (as a panic) when a caller breaks a contract of
// the grid, such as addressing a cell outside of it. Generate recovers it
// and returns it as a regular error.
type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}
