package transaction

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Status represents the settlement state of a transaction.
type Status string

const (
	StatusPending Status = "Pending"
	StatusPosted  Status = "Posted"
)

var (
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("transaction not found")
	// ErrInvalidID is returned when an id does not have the store's id format.
	ErrInvalidID = errors.New("invalid transaction id")
	// ErrInvalidInput is returned when an Input fails validation.
	ErrInvalidInput = errors.New("Transaction validation failed")
)

// NotFoundError reports that no transaction exists with the given id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return "Transaction was not found with id: " + e.ID
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Transaction represents a single account movement.
type Transaction struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	Amount       float64 `json:"amount"` // positive is inflow
	Status       Status  `json:"status"`
	Counterparty string  `json:"counterparty"`
	MethodCode   int     `json:"methodCode"`
	Note         *string `json:"note,omitempty"`
}

// Input holds every mutable field of a transaction. Updates replace all of them.
type Input struct {
	Date         string  `json:"date" validate:"required"`
	Amount       float64 `json:"amount"`
	Status       Status  `json:"status" validate:"required,oneof=Pending Posted"`
	Counterparty string  `json:"counterparty" validate:"required"`
	MethodCode   int     `json:"methodCode"`
	Note         *string `json:"note,omitempty"`
}

// Transaction returns a record built from the input with the given id.
func (in Input) Transaction(id string) *Transaction {
	return &Transaction{
		ID:           id,
		Date:         in.Date,
		Amount:       in.Amount,
		Status:       in.Status,
		Counterparty: in.Counterparty,
		MethodCode:   in.MethodCode,
		Note:         in.Note,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})

	return v
}

// Validate checks the constraints a store enforces before persisting.
// Method codes are not checked against the method table.
func (in Input) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating transaction: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))

	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: `%v` is not a valid enum value for path `%s`.", fe.Field(), fe.Value(), fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: Path `%s` is required.", fe.Field(), fe.Field()))
		}
	}

	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, ", "))
}
