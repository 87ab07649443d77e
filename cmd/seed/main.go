package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/ledgerql/internal/config"
	"github.com/MrJamesThe3rd/ledgerql/internal/events/kafka"
	"github.com/MrJamesThe3rd/ledgerql/internal/importer"
	"github.com/MrJamesThe3rd/ledgerql/internal/logger"
	"github.com/MrJamesThe3rd/ledgerql/internal/transaction"
	txStore "github.com/MrJamesThe3rd/ledgerql/internal/transaction/store"
)

func main() {
	file := flag.String("file", "", "CSV file to load")
	dryRun := flag.Bool("dry-run", false, "parse and validate without writing")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr).With().Timestamp().Logger()
		fallback.Error().Err(err).Msg("failed to load config")
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty, os.Stderr)

	if *file == "" {
		log.Error().Msg("-file is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(log.WithContext(context.Background()), cfg, *file, *dryRun); err != nil {
		log.Error().Err(err).Msg("seed failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, path string, dryRun bool) error {
	log := zerolog.Ctx(ctx)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	res, err := importer.NewParser().Parse(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	log.Info().
		Str("profile", res.Profile).
		Str("charset", res.Charset).
		Int("rows", len(res.Inputs)).
		Msg("parsed file")

	for i, in := range res.Inputs {
		if err := in.Validate(); err != nil {
			return fmt.Errorf("row %d: %w", res.Line(i), err)
		}
	}

	if dryRun {
		return nil
	}

	repo, closeStore, err := txStore.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Store.Driver, err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	publisher, closePublisher := newPublisher(cfg, log)
	defer closePublisher()

	svc := transaction.NewService(repo, publisher)

	for _, in := range res.Inputs {
		tx, err := svc.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("creating transaction for %s on %s: %w", in.Counterparty, in.Date, err)
		}

		log.Debug().Str("id", tx.ID).Float64("amount", tx.Amount).Msg("created transaction")
	}

	log.Info().Int("created", len(res.Inputs)).Str("store", cfg.Store.Driver).Msg("seed complete")

	return nil
}

// newPublisher wires events the same way cmd/api does. The Publisher is nil
// when no brokers are configured.
func newPublisher(cfg *config.Config, log *zerolog.Logger) (transaction.Publisher, func()) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, func() {}
	}

	kp := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.BatchTimeout)

	return kp, func() {
		if err := kp.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close event publisher")
		}
	}
}
