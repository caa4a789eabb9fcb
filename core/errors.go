package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrSessionNotFound  = errors.New("session not found")
	ErrTokenExpired     = errors.New("token has expired")
	ErrInvalidToken     = errors.New("invalid token")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrTaskNotFound     = errors.New("task not found")
	ErrInvalidInput     = errors.New("invalid input")
)

// GenerationError is a typed failure from a generation collaborator.
// The message is human-readable and ends up on the failed task entry.
type GenerationError struct {
	Stage string // "plan" or "pin"
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %s failed: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
