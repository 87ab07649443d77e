package importer

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column (e.g. "amount" with value "-10.00").
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns (e.g. "Débito"/"Crédito").
	amountSplit
)

// Profile describes the column layout of a CSV format. Column names are
// matched case-insensitively. Empty optional columns are derived: status
// defaults to Posted and the method code follows the sign of the amount.
type Profile struct {
	Name       string
	DateCol    string
	DateLayout string // empty keeps the date cell as written
	CounterCol string
	AmountMode amountMode
	AmountCol  string // used when AmountMode == amountSingle
	DebitCol   string // used when AmountMode == amountSplit
	CreditCol  string // used when AmountMode == amountSplit
	European   bool   // "1.234,56" instead of "1234.56"
	StatusCol  string
	MethodCol  string
	NoteCol    string

	// Strict profiles fail on malformed rows instead of skipping them.
	Strict bool
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.CounterCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// profiles is tried in order during detection. More specific profiles come first.
var profiles = []Profile{
	{
		Name:       "ledger",
		DateCol:    "date",
		CounterCol: "counterparty",
		AmountMode: amountSingle,
		AmountCol:  "amount",
		StatusCol:  "status",
		MethodCol:  "methodCode",
		NoteCol:    "note",
		Strict:     true,
	},
	{
		Name:       "cgd-cartao",
		DateCol:    "Data",
		DateLayout: "02-01-2006",
		CounterCol: "Descrição",
		AmountMode: amountSplit,
		DebitCol:   "Débito",
		CreditCol:  "Crédito",
		European:   true,
	},
	{
		Name:       "cgd-extrato",
		DateCol:    "Data mov.",
		DateLayout: "02-01-2006",
		CounterCol: "Descrição",
		AmountMode: amountSingle,
		AmountCol:  "Movimento",
		European:   true,
	},
	{
		Name:       "cgd-conta",
		DateCol:    "Data mov.",
		DateLayout: "02-01-2006",
		CounterCol: "Descrição",
		AmountMode: amountSingle,
		AmountCol:  "Montante",
		European:   true,
	},
}
