package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/ledgerql/internal/transaction"
)

var keyPrefix = []byte("tx:")

// Badger keeps transactions as JSON documents in an embedded key-value store.
// Ids are UUIDv7, so iteration follows creation order.
type Badger struct {
	db *badger.DB
}

func NewBadger(db *badger.DB) *Badger {
	return &Badger{db: db}
}

func key(id string) []byte {
	return append(append([]byte{}, keyPrefix...), id...)
}

func decode(item *badger.Item) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &tx)
	})
	if err != nil {
		return nil, fmt.Errorf("decoding transaction %s: %w", item.Key(), err)
	}

	return &tx, nil
}

func put(txn *badger.Txn, tx *transaction.Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("encoding transaction: %w", err)
	}

	return txn.Set(key(tx.ID), data)
}

func (s *Badger) ListTransactions(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	txs := []*transaction.Transaction{}

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(keyPrefix); it.ValidForPrefix(keyPrefix); it.Next() {
			tx, err := decode(it.Item())
			if err != nil {
				return err
			}

			if filter.MethodCode != nil && tx.MethodCode != *filter.MethodCode {
				continue
			}

			txs = append(txs, tx)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	return txs, nil
}

func (s *Badger) CreateTransaction(_ context.Context, in transaction.Input) (*transaction.Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating id: %w", err)
	}

	tx := in.Transaction(id.String())

	if err := s.db.Update(func(txn *badger.Txn) error { return put(txn, tx) }); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	return tx, nil
}

func (s *Badger) UpdateTransaction(_ context.Context, id string, in transaction.Input) (*transaction.Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	tx := in.Transaction(id)

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key(id)); err != nil {
			return err
		}

		return put(txn, tx)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, &transaction.NotFoundError{ID: id}
		}

		return nil, fmt.Errorf("updating transaction: %w", err)
	}

	return tx, nil
}

func (s *Badger) DeleteTransaction(_ context.Context, id string) (*transaction.Transaction, error) {
	var deleted *transaction.Transaction

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key(id))
		if err != nil {
			return err
		}

		if deleted, err = decode(item); err != nil {
			return err
		}

		return txn.Delete(key(id))
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, &transaction.NotFoundError{ID: id}
		}

		return nil, fmt.Errorf("deleting transaction: %w", err)
	}

	return deleted, nil
}
