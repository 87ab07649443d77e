package method

import "errors"

// ErrNotFound is returned when no mapping carries the requested name.
var ErrNotFound = errors.New("methodName not found")

// Mapping pairs a transaction method code with its display name.
type Mapping struct {
	Code int
	Name string
}

// Table is a fixed, ordered list of method mappings.
// It is read-only once built and safe for concurrent use.
type Table struct {
	mappings []Mapping
}

var defaultMappings = []Mapping{
	{Code: 12, Name: "Card Purchase"},
	{Code: 34, Name: "ACH"},
	{Code: 56, Name: "Wire"},
	{Code: 78, Name: "Fee"},
	{Code: 1, Name: "Incoming"},
	{Code: -1, Name: "Outgoing"},
}

// Default returns the table shipped with the service.
func Default() *Table {
	return NewTable(defaultMappings)
}

// NewTable copies mappings, so later changes to the slice do not affect the table.
func NewTable(mappings []Mapping) *Table {
	return &Table{mappings: append([]Mapping(nil), mappings...)}
}

// LookupByName returns the first mapping whose name equals name exactly.
func (t *Table) LookupByName(name string) (Mapping, error) {
	for _, m := range t.mappings {
		if m.Name == name {
			return m, nil
		}
	}

	return Mapping{}, ErrNotFound
}

// All returns every mapping in table order.
func (t *Table) All() []Mapping {
	return append([]Mapping(nil), t.mappings...)
}
