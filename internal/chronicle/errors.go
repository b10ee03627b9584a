package chronicle

import (
	"errors"
	"strings"

	"github.com/cory-johannsen/elysium/internal/game/creation"
)

// ErrUnknownChoice is returned when a clan, predator type, or sect id is not in the catalog.
var ErrUnknownChoice = errors.New("unknown choice")

// ErrInvalidEdit is returned when an Edit names an unsupported kind.
var ErrInvalidEdit = errors.New("invalid edit")

// RejectedError reports a submission blocked by budget errors. Nothing was persisted.
type RejectedError struct {
	Result creation.Result
}

func (e *RejectedError) Error() string {
	return "character rejected: " + strings.Join(e.Result.ErrorMessages(), "; ")
}

// ConfirmationRequiredError reports a valid build whose warnings the caller
// has not yet accepted. Resubmit with acceptWarnings to persist it.
type ConfirmationRequiredError struct {
	Warnings []creation.Problem
}

func (e *ConfirmationRequiredError) Error() string {
	msgs := make([]string, len(e.Warnings))
	for i, w := range e.Warnings {
		msgs[i] = w.Message
	}
	return "confirmation required: " + strings.Join(msgs, "; ")
}
