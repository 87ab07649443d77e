package transaction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/ledgerql/internal/transaction"
)

func TestInput_Validate(t *testing.T) {
	type testCase struct {
		name    string
		mutate  func(in *transaction.Input)
		wantMsg string
	}

	tests := []testCase{
		{
			name:   "Valid",
			mutate: func(in *transaction.Input) {},
		},
		{
			name: "Zero Amount And Orphan Method Code",
			mutate: func(in *transaction.Input) {
				in.Amount = 0
				in.MethodCode = 999
				in.Note = nil
			},
		},
		{
			name:    "Unknown Status",
			mutate:  func(in *transaction.Input) { in.Status = "Cleared" },
			wantMsg: "Transaction validation failed: status: `Cleared` is not a valid enum value for path `status`.",
		},
		{
			name:    "Missing Status",
			mutate:  func(in *transaction.Input) { in.Status = "" },
			wantMsg: "Transaction validation failed: status: Path `status` is required.",
		},
		{
			name: "Missing Date And Counterparty",
			mutate: func(in *transaction.Input) {
				in.Date = ""
				in.Counterparty = ""
			},
			wantMsg: "Transaction validation failed: date: Path `date` is required., counterparty: Path `counterparty` is required.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleInput()
			tt.mutate(&in)

			err := in.Validate()

			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, transaction.ErrInvalidInput)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestInput_Transaction(t *testing.T) {
	in := sampleInput()
	tx := in.Transaction("abc")

	assert.Equal(t, "abc", tx.ID)
	assert.Equal(t, in.Date, tx.Date)
	assert.Equal(t, in.Amount, tx.Amount)
	assert.Equal(t, in.Status, tx.Status)
	assert.Equal(t, in.Counterparty, tx.Counterparty)
	assert.Equal(t, in.MethodCode, tx.MethodCode)
	assert.Equal(t, in.Note, tx.Note)
}
