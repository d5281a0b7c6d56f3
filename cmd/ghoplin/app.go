package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"ghoplin/internal/config"
	"ghoplin/internal/domain"
	"ghoplin/internal/joplin"
	"ghoplin/internal/logging"
	"ghoplin/internal/publisher"
	"ghoplin/internal/service"
	"ghoplin/internal/source/ghost"
	"ghoplin/internal/storage/note"
	"ghoplin/internal/storage/postgres"
)

// app holds the wired dependencies of one command invocation.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	service *service.SyncService
	closers []io.Closer
}

// loadConfig reads the config file and applies the command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if token != "" {
		cfg.Joplin.Token = token
	}
	if port != 0 {
		cfg.Joplin.Port = port
	}
	return cfg, nil
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, logCloser := logging.New(cfg.Log, verbose)
	a := &app{cfg: cfg, logger: logger, closers: []io.Closer{logCloser}}

	joplinClient, err := joplin.New(joplin.Config{
		BaseURL: cfg.Joplin.URL(),
		Token:   cfg.Joplin.Token,
		Timeout: cfg.Joplin.Timeout,
	}, logger)
	if errors.Is(err, domain.ErrCredentialMissing) {
		a.Close()
		return nil, fmt.Errorf("%w: pass --token, set JOPLIN_TOKEN or run write-config", err)
	}
	if err != nil {
		a.Close()
		return nil, err
	}

	ghostSource := ghost.New(ghost.Config{
		APIPath:           cfg.Ghost.APIPath,
		Timeout:           cfg.Ghost.Timeout,
		RequestsPerSecond: cfg.Ghost.RequestsPerSecond,
	}, logger)

	state, err := a.stateRepository(joplinClient)
	if err != nil {
		a.Close()
		return nil, err
	}

	// A nil *RabbitMQ must not end up inside the interface.
	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		pub = rabbitMQ
		a.closers = append(a.closers, rabbitMQ)
	}

	a.service = service.NewSyncService(
		state,
		ghostSource,
		joplinClient,
		joplinClient,
		joplinClient,
		pub,
		logger,
		cfg.Sync,
	)

	return a, nil
}

func (a *app) stateRepository(joplinClient *joplin.Client) (service.StateRepository, error) {
	if a.cfg.State.Backend != config.BackendPostgres {
		return note.NewStateStore(joplinClient), nil
	}

	db, err := sqlx.Connect("postgres", a.cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	a.closers = append(a.closers, db)
	a.logger.Info("connected to database", "host", a.cfg.Database.Host, "dbname", a.cfg.Database.DBName)

	return postgres.NewSyncStateStore(db), nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
