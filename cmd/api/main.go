package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/ledgerql/internal/config"
	"github.com/MrJamesThe3rd/ledgerql/internal/events/kafka"
	"github.com/MrJamesThe3rd/ledgerql/internal/export"
	"github.com/MrJamesThe3rd/ledgerql/internal/graph"
	ledgerHttp "github.com/MrJamesThe3rd/ledgerql/internal/http"
	exportHandler "github.com/MrJamesThe3rd/ledgerql/internal/http/export"
	graphqlHandler "github.com/MrJamesThe3rd/ledgerql/internal/http/graphql"
	importHandler "github.com/MrJamesThe3rd/ledgerql/internal/http/importcsv"
	"github.com/MrJamesThe3rd/ledgerql/internal/importer"
	"github.com/MrJamesThe3rd/ledgerql/internal/logger"
	"github.com/MrJamesThe3rd/ledgerql/internal/method"
	"github.com/MrJamesThe3rd/ledgerql/internal/transaction"
	txStore "github.com/MrJamesThe3rd/ledgerql/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr).With().Timestamp().Logger()
		fallback.Error().Err(err).Msg("failed to load config")
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty, os.Stdout).
		With().Str("app", cfg.App.Name).Logger()

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx = log.WithContext(ctx)

	repo, closeStore, err := txStore.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Store.Driver, err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	var publisher transaction.Publisher

	if len(cfg.Kafka.Brokers) > 0 {
		kp := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.BatchTimeout)
		defer func() {
			if err := kp.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close event publisher")
			}
		}()

		publisher = kp

		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing transaction events")
	}

	var (
		methods            = method.Default()
		transactionService = transaction.NewService(repo, publisher)
		exportService      = export.NewService(transactionService, methods)
		resolver           = graph.NewResolver(transactionService, methods)
	)

	schema, err := graph.NewSchema(resolver, graph.Options{
		MaxDepth:       cfg.GraphQL.MaxDepth,
		MaxParallelism: cfg.GraphQL.MaxParallelism,
	})
	if err != nil {
		return err
	}

	var (
		graphqlH = graphqlHandler.NewHandler(schema, cfg.GraphQL.Playground)
		importH  = importHandler.NewHandler(importer.NewParser(), transactionService)
		exportH  = exportHandler.NewHandler(exportService)
	)

	router := ledgerHttp.New(log, cfg.CORS.AllowedOrigins, graphqlH, importH, exportH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.Store.Driver).Msg("starting server")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	return nil
}
