package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/application/acquirer"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/application/contracts"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/application/payment"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/event"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/partner"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/config"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/logging"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/metrics"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/acquirer/bananapay"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/acquirer/testpg"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/eventbus"
	httpapi "github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/http"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/kafka"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/outbox"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the outbox dispatcher",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func newLogger(cfg *config.Config) *logging.StdoutLogger {
	return logging.NewStdoutLogger(logging.ParseLevel(cfg.Log.Level), os.Stdout).
		With(map[string]any{"service": "payment-gateway"})
}

func serve(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cfg)
	counters := &metrics.Counters{}

	s, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	registry, err := newRegistry(cfg, logger)
	if err != nil {
		return err
	}
	if err := checkOwnership(ctx, registry, s.Partners, logger); err != nil {
		return err
	}

	publisher, closePublisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	dispatcher := &outbox.Dispatcher{
		Repo:         s.Outbox,
		Publisher:    publisher,
		PollInterval: cfg.Outbox.PollInterval,
		BatchSize:    cfg.Outbox.BatchSize,
		Logger:       logger.With(map[string]any{"component": "outbox"}),
		Metrics:      counters,
	}

	handler := &httpapi.Handler{
		Payments: &payment.Service{
			Partners:  s.Partners,
			Policies:  s.Partners,
			Acquirers: registry,
			Repo:      s.Payments,
			Recorder:  &outbox.Recorder{Repo: s.Outbox},
			Logger:    logger.With(map[string]any{"component": "pay"}),
			Metrics:   counters,
		},
		Queries: &payment.QueryService{
			Repo:         s.Payments,
			DefaultLimit: cfg.HTTP.DefaultLimit,
			Logger:       logger.With(map[string]any{"component": "query"}),
			Metrics:      counters,
		},
		Metrics:  counters,
		Logger:   logger,
		MaxLimit: cfg.HTTP.MaxLimit,
	}

	if logging.ParseLevel(cfg.Log.Level) != logging.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      httpapi.NewRouter(handler, logger.With(map[string]any{"component": "http"})),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	dispatcherDone := make(chan struct{})
	go func() {
		defer close(dispatcherDone)
		dispatcher.Run(ctx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", map[string]any{
			"addr":      cfg.HTTP.Addr,
			"driver":    cfg.Store.Driver,
			"acquirers": registry.Names(),
		})
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		stop()
		<-dispatcherDone
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", map[string]any{"error": err})
	}
	<-dispatcherDone

	// last pass so events recorded by in-flight requests are not left behind
	// in a memory outbox
	dispatcher.DispatchOnce(shutdownCtx)
	return nil
}

func newRegistry(cfg *config.Config, logger *logging.StdoutLogger) (*acquirer.Registry, error) {
	registry := acquirer.NewRegistry()

	if bc := cfg.Acquirers.BananaPay; bc.Enabled {
		client := bananapay.New(acquirer.Claim{Only: bc.Partners}, logger.With(map[string]any{"adapter": bananapay.Name}))
		if err := registry.Register(bananapay.Name, client); err != nil {
			return nil, err
		}
	}

	if tc := cfg.Acquirers.TestPG; tc.Enabled {
		client, err := testpg.New(testpg.Config{
			BaseURL:        tc.BaseURL,
			APIKey:         tc.APIKey,
			IV:             tc.IV,
			ConnectTimeout: tc.ConnectTimeout,
			ReadTimeout:    tc.ReadTimeout,
			Claim:          acquirer.Claim{Except: tc.ExcludePartners},
		}, logger.With(map[string]any{"adapter": testpg.Name}))
		if err != nil {
			return nil, fmt.Errorf("configure %s: %w", testpg.Name, err)
		}
		if err := registry.Register(testpg.Name, client); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// checkOwnership refuses to start when two adapters claim one active
// partner; partners nobody claims only produce a warning.
func checkOwnership(ctx context.Context, registry *acquirer.Registry, partners partner.Repository, logger logging.Logger) error {
	all, err := partners.List(ctx)
	if err != nil {
		return fmt.Errorf("list partners: %w", err)
	}

	ids := make([]int64, 0, len(all))
	for _, p := range all {
		if p.Active {
			ids = append(ids, p.ID)
		}
	}

	if err := registry.Validate(ids); err != nil {
		return err
	}
	if unclaimed := registry.Unclaimed(ids); len(unclaimed) > 0 {
		logger.Warn("partners without an acquirer", map[string]any{"partner_ids": unclaimed})
	}
	return nil
}

func newPublisher(cfg *config.Config, logger *logging.StdoutLogger) (contracts.EventPublisher, func(), error) {
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(kafka.Config{
			Brokers:  cfg.Kafka.Brokers,
			Topic:    cfg.Kafka.Topic,
			ClientID: cfg.Kafka.ClientID,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("kafka producer: %w", err)
		}
		pub := kafka.NewPublisher(producer, cfg.Kafka.Topic)
		return pub, func() {
			if err := pub.Close(); err != nil {
				logger.Error("kafka close failed", map[string]any{"error": err})
			}
		}, nil
	}

	bus := eventbus.NewInMemoryBus()
	bus.Subscribe(event.PaymentApproved, eventbus.LogHandler(logger.With(map[string]any{"component": "events"})))
	return bus, func() {}, nil
}
