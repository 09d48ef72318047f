package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/partner"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/config"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/outbox"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/persistence/boltdb"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/persistence/inmemory"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/persistence/mysql"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/persistence/sqlite"
)

type partnerStore interface {
	partner.Repository
	partner.FeePolicyRepository
}

type seeder interface {
	Upsert(ctx context.Context, partners []partner.Partner, policies []partner.FeePolicy) error
}

type stores struct {
	Partners partnerStore
	Payments payment.Repository
	Outbox   outbox.Repository
	// Seeder is nil for drivers whose partner directory is read from the
	// seed file at every start.
	Seeder seeder
	close  func() error
}

func (s *stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// openSQL opens the configured SQL database without touching its schema.
func openSQL(ctx context.Context, cfg config.StoreConfig) (*sql.DB, func(context.Context, *sql.DB) error, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLite.Path)
		return db, sqlite.RunMigrations, err
	case config.DriverMySQL:
		db, err := mysql.Open(ctx, mysql.Config{
			Addr:     cfg.MySQL.Addr,
			User:     cfg.MySQL.User,
			Password: cfg.MySQL.Password,
			Database: cfg.MySQL.Database,
			MaxConns: cfg.MySQL.MaxConns,
		})
		return db, mysql.RunMigrations, err
	}
	return nil, nil, fmt.Errorf("driver %q has no SQL schema", cfg.Driver)
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory, config.DriverBolt:
		seed, err := config.LoadSeed(cfg.Seed.File)
		if err != nil {
			return nil, err
		}
		s := &stores{
			Partners: inmemory.NewPartnerRepository(seed.Partners, seed.Policies),
			Outbox:   outbox.NewMemoryRepository(),
		}
		if cfg.Store.Driver == config.DriverMemory {
			s.Payments = inmemory.NewPaymentRepository()
			return s, nil
		}

		db, err := boltdb.Open(cfg.Store.Bolt.Path)
		if err != nil {
			return nil, fmt.Errorf("open bolt %s: %w", cfg.Store.Bolt.Path, err)
		}
		s.Payments = boltdb.NewPaymentRepository(db)
		s.close = db.Close
		return s, nil
	}

	db, migrate, err := openSQL(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s store: %w", cfg.Store.Driver, err)
	}

	s := &stores{Outbox: outbox.NewSQLRepository(db), close: db.Close}
	if cfg.Store.Driver == config.DriverSQLite {
		partners := sqlite.NewPartnerRepository(db)
		s.Partners, s.Seeder = partners, partners
		s.Payments = sqlite.NewPaymentRepository(db)
	} else {
		partners := mysql.NewPartnerRepository(db)
		s.Partners, s.Seeder = partners, partners
		s.Payments = mysql.NewPaymentRepository(db)
	}
	return s, nil
}
