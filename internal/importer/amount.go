package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount parses "1234.56", or "1.234,56" when european is set.
func parseAmount(s string, european bool) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(s, " ", "")

	if european {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return decimal.NewFromString(clean)
}
