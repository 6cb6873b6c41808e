package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	DB         DBConfig         `mapstructure:"db"`
	Cron       CronConfig       `mapstructure:"cron"`
	Fetch      FetchConfig      `mapstructure:"fetch"`
	MarketData MarketDataConfig `mapstructure:"market_data"`
	Gex        GexConfig        `mapstructure:"gex"`
	Chart      ChartConfig      `mapstructure:"chart"`
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
	Enabled bool `mapstructure:"enabled"`
	// RefreshSpec is a robfig/cron spec (with seconds field) for the
	// watchlist-wide exposure refresh. Default: weekdays at 21:30 UTC,
	// after the US close.
	RefreshSpec string `mapstructure:"refresh_spec"`
}

type FetchConfig struct {
	// ScriptPath is the external per-ticker fetch process. It is invoked
	// with the ticker symbol as its sole argument.
	ScriptPath string `mapstructure:"script_path"`
	// Timeout bounds a single fetch process run. Zero disables the bound.
	Timeout time.Duration `mapstructure:"timeout"`
}

type MarketDataConfig struct {
	Chain ChainConfig  `mapstructure:"chain"`
	Spot  AlpacaConfig `mapstructure:"spot"`
}

type ChainConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type AlpacaConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	APISecret string        `mapstructure:"api_secret"`
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type GexConfig struct {
	RiskFreeRate float64 `mapstructure:"risk_free_rate"`
	MaxExpiries  int     `mapstructure:"max_expiries"`
	// StrikeBandPct keeps strikes within [spot*(1-p), spot*(1+p)].
	StrikeBandPct float64 `mapstructure:"strike_band_pct"`
}

type ChartConfig struct {
	LookbackDays int `mapstructure:"lookback_days"`
	CacheSize    int `mapstructure:"cache_size"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GW")
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
	v.SetDefault("cron.refresh_spec", "0 30 21 * * 1-5")
	v.SetDefault("fetch.script_path", "./bin/fetcher")
	v.SetDefault("fetch.timeout", "5m")
	v.SetDefault("market_data.chain.base_url", "https://query2.finance.yahoo.com")
	v.SetDefault("market_data.chain.timeout", "15s")
	v.SetDefault("market_data.spot.base_url", "")
	v.SetDefault("market_data.spot.timeout", "15s")
	v.SetDefault("gex.risk_free_rate", 0.04)
	v.SetDefault("gex.max_expiries", 10)
	v.SetDefault("gex.strike_band_pct", 0.15)
	v.SetDefault("chart.lookback_days", 20)
	v.SetDefault("chart.cache_size", 64)

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
