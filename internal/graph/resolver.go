package graph

import (
	"context"

	"github.com/graph-gophers/graphql-go"

	"github.com/MrJamesThe3rd/ledgerql/internal/method"
	"github.com/MrJamesThe3rd/ledgerql/internal/transaction"
)

const (
	opTransactions             = "Error fetching transactions"
	opTransactionsByMethodName = "Error fetching transaction by method name"
	opCurrentAccountBalance    = "Error calculating current account balance"
	opCreateTransaction        = "Failed to create a transaction"
	opUpdateTransaction        = "Failed to update a transaction"
	opDeleteTransaction        = "Failed to delete a transaction"
)

// Resolver is the root resolver for both Query and Mutation.
type Resolver struct {
	transactions *transaction.Service
	methods      *method.Table
}

func NewResolver(transactions *transaction.Service, methods *method.Table) *Resolver {
	return &Resolver{transactions: transactions, methods: methods}
}

func (r *Resolver) Transactions(ctx context.Context) ([]*transactionResolver, error) {
	txs, err := r.transactions.List(ctx, transaction.ListFilter{})
	if err != nil {
		return nil, wrap(opTransactions, err)
	}

	return resolveTransactions(txs), nil
}

func (r *Resolver) TransactionsByMethodName(ctx context.Context, args struct{ MethodName string }) ([]*transactionResolver, error) {
	m, err := r.methods.LookupByName(args.MethodName)
	if err != nil {
		return nil, wrap(opTransactionsByMethodName, err)
	}

	txs, err := r.transactions.List(ctx, transaction.ListFilter{MethodCode: &m.Code})
	if err != nil {
		return nil, wrap(opTransactionsByMethodName, err)
	}

	return resolveTransactions(txs), nil
}

func (r *Resolver) CurrentAccountBalance(ctx context.Context) (float64, error) {
	balance, err := r.transactions.Balance(ctx)
	if err != nil {
		return 0, wrap(opCurrentAccountBalance, err)
	}

	return balance, nil
}

func (r *Resolver) MethodCodeToMethodNameMapping() []*methodMappingResolver {
	all := r.methods.All()

	out := make([]*methodMappingResolver, len(all))
	for i, m := range all {
		out[i] = &methodMappingResolver{m: m}
	}

	return out
}

func (r *Resolver) CreateTransaction(ctx context.Context, args struct{ Input transactionInput }) (*transactionResolver, error) {
	tx, err := r.transactions.Create(ctx, args.Input.domain())
	if err != nil {
		return nil, wrap(opCreateTransaction, err)
	}

	return &transactionResolver{tx: tx}, nil
}

func (r *Resolver) UpdateTransaction(ctx context.Context, args struct {
	ID    graphql.ID
	Input transactionInput
}) (*transactionResolver, error) {
	tx, err := r.transactions.Update(ctx, string(args.ID), args.Input.domain())
	if err != nil {
		return nil, wrap(opUpdateTransaction, err)
	}

	return &transactionResolver{tx: tx}, nil
}

func (r *Resolver) DeleteTransaction(ctx context.Context, args struct{ ID graphql.ID }) (graphql.ID, error) {
	if _, err := r.transactions.Delete(ctx, string(args.ID)); err != nil {
		return "", wrap(opDeleteTransaction, err)
	}

	return args.ID, nil
}
