package drop

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrPostFailed    = errors.New(ErrMsgPostFailed)
	ErrInvalidConfig = errors.New(ErrMsgInvalidConfig)
)

// LedgerError means a claim won the race but could not be committed. The
// drop stays claimed; it is never reopened.
type LedgerError struct {
	DropID uuid.UUID
	UserID string
	Err    error
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf(ErrMsgLedgerCommit, e.DropID, e.UserID, e.Err)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}
