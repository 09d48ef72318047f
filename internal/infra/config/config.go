package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "PGW"

type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Log       LogConfig       `mapstructure:"log"`
	Store     StoreConfig     `mapstructure:"store"`
	Seed      SeedConfig      `mapstructure:"seed"`
	Outbox    OutboxConfig    `mapstructure:"outbox"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Acquirers AcquirersConfig `mapstructure:"acquirers"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	MaxLimit        int           `mapstructure:"max_limit"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
	DriverBolt   = "bolt"
)

type StoreConfig struct {
	Driver string      `mapstructure:"driver"`
	SQLite SQLiteStore `mapstructure:"sqlite"`
	MySQL  MySQLStore  `mapstructure:"mysql"`
	Bolt   BoltStore   `mapstructure:"bolt"`
}

type SQLiteStore struct {
	Path string `mapstructure:"path"`
}

type MySQLStore struct {
	Addr     string `mapstructure:"addr"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	MaxConns int    `mapstructure:"max_conns"`
}

type BoltStore struct {
	Path string `mapstructure:"path"`
}

type SeedConfig struct {
	File string `mapstructure:"file"`
}

type OutboxConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	BatchSize    int           `mapstructure:"batch_size"`
}

type KafkaConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Brokers  []string `mapstructure:"brokers"`
	Topic    string   `mapstructure:"topic"`
	ClientID string   `mapstructure:"client_id"`
}

type AcquirersConfig struct {
	TestPG    TestPGConfig    `mapstructure:"testpg"`
	BananaPay BananaPayConfig `mapstructure:"bananapay"`
}

type TestPGConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	BaseURL         string        `mapstructure:"base_url"`
	APIKey          string        `mapstructure:"api_key"`
	IV              string        `mapstructure:"iv"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	ExcludePartners []int64       `mapstructure:"exclude_partners"`
}

type BananaPayConfig struct {
	Enabled  bool    `mapstructure:"enabled"`
	Partners []int64 `mapstructure:"partners"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.default_limit", 20)
	v.SetDefault("http.max_limit", 100)
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")

	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.sqlite.path", "payment_gateway.db")
	v.SetDefault("store.mysql.addr", "localhost:3306")
	v.SetDefault("store.mysql.user", "root")
	v.SetDefault("store.mysql.password", "")
	v.SetDefault("store.mysql.database", "payments")
	v.SetDefault("store.mysql.max_conns", 10)
	v.SetDefault("store.bolt.path", "payments.bolt")

	v.SetDefault("seed.file", "configs/seed.yaml")

	v.SetDefault("outbox.poll_interval", time.Second)
	v.SetDefault("outbox.batch_size", 100)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "payments.approved")
	v.SetDefault("kafka.client_id", "payment-gateway")

	v.SetDefault("acquirers.testpg.enabled", true)
	v.SetDefault("acquirers.testpg.base_url", "https://api-test-pg.bigs.im")
	v.SetDefault("acquirers.testpg.api_key", "11111111-1111-4111-8111-111111111111")
	v.SetDefault("acquirers.testpg.iv", "AAAAAAAAAAAAAAAA")
	v.SetDefault("acquirers.testpg.connect_timeout", 3*time.Second)
	v.SetDefault("acquirers.testpg.read_timeout", 10*time.Second)
	v.SetDefault("acquirers.testpg.exclude_partners", []int64{3})

	v.SetDefault("acquirers.bananapay.enabled", true)
	v.SetDefault("acquirers.bananapay.partners", []int64{3})
}

// Load reads path (optional) on top of the defaults. PGW_* environment
// variables override both, e.g. PGW_STORE_DRIVER=sqlite.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var ErrInvalidConfig = errors.New("invalid config")

func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case DriverMemory, DriverSQLite, DriverMySQL, DriverBolt:
	default:
		errs = append(errs, fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.Store.Driver))
	}
	if c.HTTP.DefaultLimit < 1 {
		errs = append(errs, fmt.Errorf("%w: http.default_limit must be positive", ErrInvalidConfig))
	}
	if c.HTTP.MaxLimit < c.HTTP.DefaultLimit {
		errs = append(errs, fmt.Errorf("%w: http.max_limit below http.default_limit", ErrInvalidConfig))
	}
	if c.Outbox.BatchSize < 1 || c.Outbox.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w: outbox batch_size and poll_interval must be positive", ErrInvalidConfig))
	}
	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "") {
		errs = append(errs, fmt.Errorf("%w: kafka needs brokers and topic", ErrInvalidConfig))
	}
	if c.Acquirers.TestPG.Enabled && c.Acquirers.TestPG.BaseURL == "" {
		errs = append(errs, fmt.Errorf("%w: acquirers.testpg.base_url is empty", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}
