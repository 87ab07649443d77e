package graph

import (
	"errors"

	"github.com/MrJamesThe3rd/ledgerql/internal/method"
	"github.com/MrJamesThe3rd/ledgerql/internal/transaction"
)

// Error codes reported under "extensions.code".
const (
	CodeNotFound     = "NOT_FOUND"
	CodeBadUserInput = "BAD_USER_INPUT"
	CodeStoreError   = "STORE_ERROR"
)

// Error is returned by every resolver operation. Its message is "<Op>: <cause>".
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Extensions is copied into the "extensions" member of the GraphQL error.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code()}
}

// Code classifies the cause. Anything that is not a lookup or input
// failure is reported as a store error.
func (e *Error) Code() string {
	switch {
	case errors.Is(e.Err, transaction.ErrNotFound), errors.Is(e.Err, method.ErrNotFound):
		return CodeNotFound
	case errors.Is(e.Err, transaction.ErrInvalidInput), errors.Is(e.Err, transaction.ErrInvalidID):
		return CodeBadUserInput
	default:
		return CodeStoreError
	}
}

func wrap(op string, err error) error {
	return &Error{Op: op, Err: err}
}
