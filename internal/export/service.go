package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ledgerql/internal/method"
	"github.com/MrJamesThe3rd/ledgerql/internal/transaction"
)

// Header is the column layout written by WriteCSV. It is the layout the
// importer recognises as the "ledger" profile, which keeps dates verbatim,
// so an export re-imports to the same records.
var Header = []string{"date", "amount", "status", "counterparty", "methodCode", "note"}

// Service writes stored transactions out as CSV.
type Service struct {
	transactions *transaction.Service
	methods      *method.Table
}

func NewService(txService *transaction.Service, methods *method.Table) *Service {
	return &Service{
		transactions: txService,
		methods:      methods,
	}
}

// WriteCSV writes every transaction, or only those of methodName when it is
// not empty, and returns the number of data rows written.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, methodName string) (int, error) {
	filter := transaction.ListFilter{}

	if methodName != "" {
		m, err := s.methods.LookupByName(methodName)
		if err != nil {
			return 0, err
		}

		filter.MethodCode = &m.Code
	}

	txs, err := s.transactions.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("listing transactions: %w", err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		note := ""
		if tx.Note != nil {
			note = *tx.Note
		}

		record := []string{
			tx.Date,
			decimal.NewFromFloat(tx.Amount).String(),
			string(tx.Status),
			tx.Counterparty,
			strconv.Itoa(tx.MethodCode),
			note,
		}

		if err := cw.Write(record); err != nil {
			return 0, fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flushing csv: %w", err)
	}

	return len(txs), nil
}
