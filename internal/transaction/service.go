package transaction

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	CreateTransaction(ctx context.Context, in Input) (*Transaction, error)
	UpdateTransaction(ctx context.Context, id string, in Input) (*Transaction, error)
	DeleteTransaction(ctx context.Context, id string) (*Transaction, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// ListFilter narrows ListTransactions. A zero filter matches every transaction.
type ListFilter struct {
	MethodCode *int
}

type EventType string

const (
	EventCreated EventType = "transaction.created"
	EventUpdated EventType = "transaction.updated"
	EventDeleted EventType = "transaction.deleted"
)

// Event describes a completed mutation.
type Event struct {
	Type        EventType    `json:"type"`
	Transaction *Transaction `json:"transaction"`
	OccurredAt  time.Time    `json:"occurredAt"`
}

type Service struct {
	repo Repository
	pub  Publisher
}

// NewService builds a Service. pub may be nil when no event sink is configured.
func NewService(repo Repository, pub Publisher) *Service {
	return &Service{repo: repo, pub: pub}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// Balance sums the amount of every stored transaction.
// The sum is exact, so it does not depend on the order the store returns rows in.
func (s *Service) Balance(ctx context.Context) (float64, error) {
	txs, err := s.repo.ListTransactions(ctx, ListFilter{})
	if err != nil {
		return 0, err
	}

	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(decimal.NewFromFloat(tx.Amount))
	}

	balance, _ := total.Float64()

	return balance, nil
}

func (s *Service) Create(ctx context.Context, in Input) (*Transaction, error) {
	tx, err := s.repo.CreateTransaction(ctx, in)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventCreated, tx)

	return tx, nil
}

func (s *Service) Update(ctx context.Context, id string, in Input) (*Transaction, error) {
	tx, err := s.repo.UpdateTransaction(ctx, id, in)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventUpdated, tx)

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, id string) (*Transaction, error) {
	tx, err := s.repo.DeleteTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventDeleted, tx)

	return tx, nil
}

// publish is best effort: the mutation has already been committed.
func (s *Service) publish(ctx context.Context, typ EventType, tx *Transaction) {
	if s.pub == nil {
		return
	}

	event := Event{Type: typ, Transaction: tx, OccurredAt: time.Now().UTC()}
	if err := s.pub.Publish(ctx, event); err != nil {
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("event", string(typ)).
			Str("transaction_id", tx.ID).
			Msg("failed to publish transaction event")
	}
}
