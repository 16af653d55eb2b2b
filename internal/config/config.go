package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	Cron      CronConfig      `mapstructure:"cron"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Retention RetentionConfig `mapstructure:"retention"`

	// Lookup table for payment method display names (method id -> name).
	// Ids missing from the table fall back to a placeholder label.
	PaymentMethods map[string]string `mapstructure:"payment_methods"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

type CronConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Ingest  string `mapstructure:"ingest"`
	Cleanup string `mapstructure:"cleanup"`
}

type UpstreamConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type IngestConfig struct {
	Pairs    []PairConfig `mapstructure:"pairs"`
	PageSize int          `mapstructure:"page_size"`
	MaxPages int          `mapstructure:"max_pages"`

	// Minimum pause between consecutive upstream calls (rate limit floor).
	SidePause time.Duration `mapstructure:"side_pause"`
}

type PairConfig struct {
	Token    string `mapstructure:"token"`
	Currency string `mapstructure:"currency"`
}

type RetentionConfig struct {
	Days int `mapstructure:"days"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("P2P")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.ingest", "@every 5m")
	v.SetDefault("cron.cleanup", "0 0 4 * * *")
	v.SetDefault("upstream.base_url", "https://api2.bybit.com")
	v.SetDefault("upstream.timeout", "15s")
	v.SetDefault("ingest.page_size", 100)
	v.SetDefault("ingest.max_pages", 10)
	v.SetDefault("ingest.side_pause", "1s")
	v.SetDefault("retention.days", 30)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
