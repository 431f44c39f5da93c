package service

import (
	"errors"
	"fmt"
)

// Custom errors for user service
var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateLogin = errors.New("user with this login is already exists")
	ErrUnauthorized   = errors.New("incorrect login or password")
)

// ValidationError reports which field failed the Latin-letters-and-digits
// rule. Callers may collapse it to a generic message.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("All characters except Latin letters and numbers in %s field are prohibited", e.Field)
}
