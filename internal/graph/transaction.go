package graph

import (
	"github.com/graph-gophers/graphql-go"

	"github.com/MrJamesThe3rd/ledgerql/internal/method"
	"github.com/MrJamesThe3rd/ledgerql/internal/transaction"
)

type transactionResolver struct {
	tx *transaction.Transaction
}

func (r *transactionResolver) ID() graphql.ID       { return graphql.ID(r.tx.ID) }
func (r *transactionResolver) Date() string         { return r.tx.Date }
func (r *transactionResolver) Amount() float64      { return r.tx.Amount }
func (r *transactionResolver) Status() string       { return string(r.tx.Status) }
func (r *transactionResolver) Counterparty() string { return r.tx.Counterparty }
func (r *transactionResolver) MethodCode() int32    { return int32(r.tx.MethodCode) }
func (r *transactionResolver) Note() *string        { return r.tx.Note }

func resolveTransactions(txs []*transaction.Transaction) []*transactionResolver {
	out := make([]*transactionResolver, len(txs))
	for i, tx := range txs {
		out[i] = &transactionResolver{tx: tx}
	}

	return out
}

type methodMappingResolver struct {
	m method.Mapping
}

func (r *methodMappingResolver) MethodCode() int32  { return int32(r.m.Code) }
func (r *methodMappingResolver) MethodName() string { return r.m.Name }

type transactionInput struct {
	Date         string
	Amount       float64
	Status       string
	Counterparty string
	MethodCode   int32
	Note         *string
}

func (in transactionInput) domain() transaction.Input {
	return transaction.Input{
		Date:         in.Date,
		Amount:       in.Amount,
		Status:       transaction.Status(in.Status),
		Counterparty: in.Counterparty,
		MethodCode:   int(in.MethodCode),
		Note:         in.Note,
	}
}
