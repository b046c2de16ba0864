package helper

import "fmt"

// NewError wraps err with the operation during which it occurred.
func NewError(operation string, err error) error {
	return fmt.Errorf("%s: %w", operation, err)
}
