package domain

import (
	"errors"
	"fmt"
)

// ErrBackendUnavailable is returned when the model backend cannot be reached
// at all (network or auth transport failure). It aborts the current turn.
var ErrBackendUnavailable = errors.New("model backend unavailable")

// ErrConversationNotFound is returned when a conversation ID cannot be found
// in the store.
var ErrConversationNotFound = errors.New("conversation not found")

// ErrCheckpointNotFound is returned when a checkpoint ID cannot be found in
// the store.
var ErrCheckpointNotFound = errors.New("checkpoint not found")

// ErrAgentNotFound is returned by multi-agent evaluators and trainers when an
// agent ID is unknown.
var ErrAgentNotFound = errors.New("agent not found")

// ErrNoTestCases is returned when a batch operation receives zero cases.
var ErrNoTestCases = errors.New("no test cases")

// BackendError is a non-transport failure reported by the model backend
// (rate limit, bad request, server error). It aborts the current turn.
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Body)
}
