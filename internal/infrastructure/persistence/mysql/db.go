package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"
)

type Config struct {
	Addr     string
	User     string
	Password string
	Database string
	MaxConns int
}

// DSN renders cfg for the go-sql-driver. Times are parsed into UTC so
// DATETIME(6) values compare exactly with the cursor instants.
func DSN(cfg Config) string {
	c := mysql.NewConfig()
	c.Net = "tcp"
	c.Addr = cfg.Addr
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.DBName = cfg.Database
	c.ParseTime = true
	c.Loc = time.UTC
	return c.FormatDSN()
}

func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
		db.SetMaxIdleConns(cfg.MaxConns)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func timeArg(t time.Time) any {
	return t.UTC()
}
