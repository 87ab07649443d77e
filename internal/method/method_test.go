package method_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ledgerql/internal/method"
)

func TestTable_LookupByName(t *testing.T) {
	type testCase struct {
		name     string
		input    string
		wantCode int
		wantErr  error
	}

	tests := []testCase{
		{name: "Fee", input: "Fee", wantCode: 78},
		{name: "Card Purchase", input: "Card Purchase", wantCode: 12},
		{name: "Negative code", input: "Outgoing", wantCode: -1},
		{name: "Unknown", input: "No such method", wantErr: method.ErrNotFound},
		{name: "Case sensitive", input: "fee", wantErr: method.ErrNotFound},
		{name: "Empty", input: "", wantErr: method.ErrNotFound},
	}

	table := method.Default()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.LookupByName(tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, "methodName not found", err.Error())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.input, got.Name)
		})
	}
}

func TestTable_LookupByName_FirstMatchWins(t *testing.T) {
	table := method.NewTable([]method.Mapping{
		{Code: 1, Name: "Dup"},
		{Code: 2, Name: "Dup"},
	})

	got, err := table.LookupByName("Dup")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Code)
}

func TestTable_All(t *testing.T) {
	want := []method.Mapping{
		{Code: 12, Name: "Card Purchase"},
		{Code: 34, Name: "ACH"},
		{Code: 56, Name: "Wire"},
		{Code: 78, Name: "Fee"},
		{Code: 1, Name: "Incoming"},
		{Code: -1, Name: "Outgoing"},
	}

	table := method.Default()
	assert.Equal(t, want, table.All())

	// Callers must not be able to mutate the table through the returned slice.
	all := table.All()
	all[0].Name = "changed"
	assert.Equal(t, want, table.All())
}

func TestNewTable_CopiesMappings(t *testing.T) {
	mappings := []method.Mapping{{Code: 1, Name: "Incoming"}}

	table := method.NewTable(mappings)
	mappings[0].Name = "changed"

	got, err := table.LookupByName("Incoming")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Code)
}
