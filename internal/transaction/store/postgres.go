package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/ledgerql/internal/transaction"
)

// Postgres keeps transactions in a single relational table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const schema = `
	CREATE TABLE IF NOT EXISTS transactions (
		id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		date         TEXT NOT NULL,
		amount       DOUBLE PRECISION NOT NULL,
		status       TEXT NOT NULL CHECK (status IN ('Pending', 'Posted')),
		counterparty TEXT NOT NULL,
		method_code  INTEGER NOT NULL,
		note         TEXT,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS transactions_method_code_idx ON transactions (method_code);
`

// Migrate creates the transactions table if it does not exist yet.
func (s *Postgres) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating transactions table: %w", err)
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, date, amount, status, counterparty, method_code, note
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var id uuid.UUID

	var status string

	if err := s.Scan(&id, &tx.Date, &tx.Amount, &status, &tx.Counterparty, &tx.MethodCode, &tx.Note); err != nil {
		return nil, err
	}

	tx.ID = id.String()
	tx.Status = transaction.Status(status)

	return &tx, nil
}

const returningColumns = `id, date, amount, status, counterparty, method_code, note`

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", transaction.ErrInvalidID, id)
	}

	return uid, nil
}

func (s *Postgres) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + returningColumns + ` FROM transactions`

	var args []any

	if filter.MethodCode != nil {
		query += " WHERE method_code = $1"

		args = append(args, *filter.MethodCode)
	}

	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	txs := []*transaction.Transaction{}

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Postgres) CreateTransaction(ctx context.Context, in transaction.Input) (*transaction.Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO transactions (date, amount, status, counterparty, method_code, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + returningColumns

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query,
		in.Date,
		in.Amount,
		string(in.Status),
		in.Counterparty,
		in.MethodCode,
		in.Note,
	))
	if err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	return tx, nil
}

func (s *Postgres) UpdateTransaction(ctx context.Context, id string, in transaction.Input) (*transaction.Transaction, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE transactions
		SET date = $1, amount = $2, status = $3, counterparty = $4, method_code = $5, note = $6
		WHERE id = $7
		RETURNING ` + returningColumns

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query,
		in.Date,
		in.Amount,
		string(in.Status),
		in.Counterparty,
		in.MethodCode,
		in.Note,
		uid,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &transaction.NotFoundError{ID: id}
		}

		return nil, fmt.Errorf("updating transaction: %w", err)
	}

	return tx, nil
}

func (s *Postgres) DeleteTransaction(ctx context.Context, id string) (*transaction.Transaction, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	query := `DELETE FROM transactions WHERE id = $1 RETURNING ` + returningColumns

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, uid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &transaction.NotFoundError{ID: id}
		}

		return nil, fmt.Errorf("deleting transaction: %w", err)
	}

	return tx, nil
}
