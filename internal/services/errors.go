package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUserNotFound    = errors.New("user not found")
	ErrHobbyNotFound   = errors.New("hobby not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrForbidden       = errors.New("record belongs to another user")
)

func invalid(err error) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, err)
}
