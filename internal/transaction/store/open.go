package store

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/ledgerql/internal/config"
	"github.com/MrJamesThe3rd/ledgerql/internal/database"
	"github.com/MrJamesThe3rd/ledgerql/internal/transaction"
)

// Open connects the backend selected by cfg.Store.Driver. The returned func
// releases the underlying connection.
func Open(ctx context.Context, cfg *config.Config) (transaction.Repository, func() error, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := database.NewMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Timeout)
		if err != nil {
			return nil, nil, err
		}

		coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		closeFn := func() error { return client.Disconnect(context.Background()) }

		return NewMongo(coll), closeFn, nil

	case config.DriverPostgres:
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, nil, err
		}

		pg := NewPostgres(db)
		if err := pg.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return pg, db.Close, nil

	case config.DriverBadger:
		db, err := database.NewBadger(cfg.Badger.Path, cfg.Badger.InMemory)
		if err != nil {
			return nil, nil, err
		}

		return NewBadger(db), db.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
