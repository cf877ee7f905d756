package client

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationRequired is returned when the user declined to log
	// in. The action that triggered the prompt should be abandoned.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrPromptCancelled is returned by a Prompter when the user backs out.
	ErrPromptCancelled = errors.New("prompt cancelled")

	ErrStatus = errors.New("unexpected status")

	errBodyNotReplayable = errors.New("request body cannot be replayed")
)

// StatusError is a non-2xx answer from the server.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Code)
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}
