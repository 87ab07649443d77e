package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/ledgerql/internal/encoding"
	"github.com/MrJamesThe3rd/ledgerql/internal/transaction"
)

const (
	methodIncoming = 1
	methodOutgoing = -1
)

// Result is the outcome of parsing one file. Lines[i] is the 1-based line
// of the file that Inputs[i] was read from.
type Result struct {
	Profile string
	Charset string
	Inputs  []transaction.Input
	Lines   []int
}

// Line returns the file line of the i-th input, or i+1 when unknown.
func (r *Result) Line(i int) int {
	if i < len(r.Lines) {
		return r.Lines[i]
	}

	return i + 1
}

// Parser reads CSV exports and produces transaction inputs. The layout is
// detected by matching a header row against the known profiles. Both ';'
// and ',' are tried as separator, and the first one that yields a known
// header wins.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) (*Result, error) {
	utf8r, charset, err := enc.Detect(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	content, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var (
		readErr error
		parsed  bool
	)

	for _, sep := range separators(content) {
		recs, err := readRecords(content, sep)
		if err != nil {
			readErr = err
			continue
		}

		parsed = true

		profile, colMap, headerIdx := detectProfile(recs.rows)
		if profile == nil {
			continue
		}

		inputs, lines, err := parseRows(profile, colMap, recs.rows[headerIdx+1:], recs.lines[headerIdx+1:])
		if err != nil {
			return nil, err
		}

		return &Result{Profile: profile.Name, Charset: charset, Inputs: inputs, Lines: lines}, nil
	}

	if !parsed && readErr != nil {
		return nil, fmt.Errorf("read csv: %w", readErr)
	}

	return nil, fmt.Errorf("no matching CSV format found: expected a header with date, counterparty and amount columns")
}

// separators orders the candidate separators, most frequent first.
func separators(content []byte) []rune {
	if bytes.Count(content, []byte(";")) >= bytes.Count(content, []byte(",")) {
		return []rune{';', ','}
	}

	return []rune{',', ';'}
}

type records struct {
	rows  [][]string
	lines []int
}

// readRecords reads every CSV record along with the file line it starts on.
// Blank lines are skipped by the reader, so lines is not always contiguous.
func readRecords(content []byte, sep rune) (records, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var out records

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}

		if err != nil {
			return records{}, err
		}

		line, _ := reader.FieldPos(0)

		out.rows = append(out.rows, row)
		out.lines = append(out.lines, line)
	}
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

func (c colIndex) get(name string) (int, bool) {
	if name == "" {
		return -1, false
	}

	i, ok := c[strings.ToLower(name)]

	return i, ok
}

func (c colIndex) must(name string) int {
	i, _ := c.get(name)
	return i
}

func (c colIndex) optional(name string) int {
	if i, ok := c.get(name); ok {
		return i
	}

	return -1
}

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols.get(name); !ok {
			return false
		}
	}

	return true
}

// parseRows extracts inputs from data rows. lines[i] is the file line of
// rows[i] and is used in error messages.
func parseRows(p *Profile, cols colIndex, rows [][]string, lines []int) ([]transaction.Input, []int, error) {
	var (
		dateIdx    = cols.must(p.DateCol)
		counterIdx = cols.must(p.CounterCol)
		statusIdx  = cols.optional(p.StatusCol)
		methodIdx  = cols.optional(p.MethodCol)
		noteIdx    = cols.optional(p.NoteCol)
	)

	var (
		inputs   = []transaction.Input{}
		rowLines = []int{}
	)

	for i, row := range rows {
		rowNum := lines[i]

		date, ok := parseDate(row, dateIdx, p.DateLayout)
		if !ok {
			if p.Strict {
				if s := cellValue(row, dateIdx); s != "" {
					return nil, nil, fmt.Errorf("row %d: invalid date %q", rowNum, s)
				}

				return nil, nil, fmt.Errorf("row %d: missing date", rowNum)
			}

			continue
		}

		counterparty := cellValue(row, counterIdx)
		if counterparty == "" {
			return nil, nil, fmt.Errorf("row %d: missing counterparty", rowNum)
		}

		amount, ok := rowAmount(p, cols, row)
		if !ok {
			if p.Strict {
				return nil, nil, fmt.Errorf("row %d: invalid amount", rowNum)
			}

			continue
		}

		in := transaction.Input{
			Date:         date,
			Amount:       amount.InexactFloat64(),
			Status:       transaction.StatusPosted,
			Counterparty: counterparty,
			MethodCode:   methodIncoming,
		}

		if amount.IsNegative() {
			in.MethodCode = methodOutgoing
		}

		if s := cellValue(row, statusIdx); s != "" {
			in.Status = transaction.Status(s)
		}

		if s := cellValue(row, methodIdx); s != "" {
			code, err := strconv.Atoi(s)
			if err != nil {
				return nil, nil, fmt.Errorf("row %d: invalid method code %q", rowNum, s)
			}

			in.MethodCode = code
		}

		if s := cellValue(row, noteIdx); s != "" {
			in.Note = &s
		}

		inputs = append(inputs, in)
		rowLines = append(rowLines, rowNum)
	}

	return inputs, rowLines, nil
}

// parseDate returns false for empty cells or unparseable values (footer rows, etc).
// With an empty layout the cell is kept verbatim, otherwise it is normalised
// to YYYY-MM-DD.
func parseDate(row []string, idx int, layout string) (string, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return "", false
	}

	if layout == "" {
		return s, true
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return "", false
	}

	return t.Format(time.DateOnly), true
}

// rowAmount returns the signed amount of a row. Debits are negative.
func rowAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, bool) {
	switch p.AmountMode {
	case amountSingle:
		return cellAmount(row, cols.must(p.AmountCol), p.European)
	case amountSplit:
		if d, ok := cellAmount(row, cols.must(p.DebitCol), p.European); ok && !d.IsZero() {
			return d.Abs().Neg(), true
		}

		if d, ok := cellAmount(row, cols.must(p.CreditCol), p.European); ok && !d.IsZero() {
			return d.Abs(), true
		}
	}

	return decimal.Zero, false
}

func cellAmount(row []string, idx int, european bool) (decimal.Decimal, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return decimal.Zero, false
	}

	d, err := parseAmount(s, european)
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
