package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MrJamesThe3rd/ledgerql/internal/transaction"
)

// Mongo stores transactions as documents in a single collection.
type Mongo struct {
	coll *mongo.Collection
}

func NewMongo(coll *mongo.Collection) *Mongo {
	return &Mongo{coll: coll}
}

type document struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Date         string             `bson:"date"`
	Amount       float64            `bson:"amount"`
	Status       string             `bson:"status"`
	Counterparty string             `bson:"counterparty"`
	MethodCode   int                `bson:"methodCode"`
	Note         *string            `bson:"note,omitempty"`
}

func toDocument(in transaction.Input) document {
	return document{
		Date:         in.Date,
		Amount:       in.Amount,
		Status:       string(in.Status),
		Counterparty: in.Counterparty,
		MethodCode:   in.MethodCode,
		Note:         in.Note,
	}
}

func (d document) transaction() *transaction.Transaction {
	return &transaction.Transaction{
		ID:           d.ID.Hex(),
		Date:         d.Date,
		Amount:       d.Amount,
		Status:       transaction.Status(d.Status),
		Counterparty: d.Counterparty,
		MethodCode:   d.MethodCode,
		Note:         d.Note,
	}
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", transaction.ErrInvalidID, id)
	}

	return oid, nil
}

func (s *Mongo) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := bson.D{}
	if filter.MethodCode != nil {
		query = append(query, bson.E{Key: "methodCode", Value: *filter.MethodCode})
	}

	cur, err := s.coll.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding transactions: %w", err)
	}

	txs := make([]*transaction.Transaction, len(docs))
	for i, d := range docs {
		txs[i] = d.transaction()
	}

	return txs, nil
}

func (s *Mongo) CreateTransaction(ctx context.Context, in transaction.Input) (*transaction.Transaction, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	doc := toDocument(in)
	doc.ID = primitive.NewObjectID()

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	return doc.transaction(), nil
}

// UpdateTransaction replaces every field of the document and returns the new version.
func (s *Mongo) UpdateTransaction(ctx context.Context, id string, in transaction.Input) (*transaction.Transaction, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}

	opts := options.FindOneAndReplace().SetReturnDocument(options.After)

	var updated document

	err = s.coll.FindOneAndReplace(ctx, bson.M{"_id": oid}, toDocument(in), opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &transaction.NotFoundError{ID: id}
		}

		return nil, fmt.Errorf("updating transaction: %w", err)
	}

	return updated.transaction(), nil
}

func (s *Mongo) DeleteTransaction(ctx context.Context, id string) (*transaction.Transaction, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var deleted document

	if err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&deleted); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &transaction.NotFoundError{ID: id}
		}

		return nil, fmt.Errorf("deleting transaction: %w", err)
	}

	return deleted.transaction(), nil
}
