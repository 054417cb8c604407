package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"signal_bot/internal/helper"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	configDirENV      = "CONFIG_DIR"
	defaultConfigFile = "values_local.yaml"
	defaultConfigDir  = "configs"
)

// Config ...
type Config struct {
	Service struct {
		Host       string `yaml:"host"`
		PublicPort int    `yaml:"public_port"` // вебхук
		AdminPort  int    `yaml:"admin_port"`  // health + metrics
	} `yaml:"service"`

	Binance struct {
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
		Testnet   bool   `yaml:"testnet"`
		BaseURL   string `yaml:"base_url"`    // пусто: дефолт go-binance
		WSBaseURL string `yaml:"ws_base_url"` // wss://fstream.binance.com
	} `yaml:"binance"`

	Trading struct {
		QuoteAsset     string        `yaml:"quote_asset"`
		Leverage       int           `yaml:"leverage"`
		BalanceReserve float64       `yaml:"balance_reserve"` // не трогаем этот остаток
		CloseInterval  string        `yaml:"close_interval"`  // kline interval, по закрытию которой выходим
		OrderTimeout   time.Duration `yaml:"order_timeout"`
	} `yaml:"trading"`

	Stream struct {
		PingInterval     time.Duration `yaml:"ping_interval"`
		HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
	} `yaml:"stream"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	Tracing struct {
		Enabled bool   `yaml:"enabled"`
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
	} `yaml:"tracing"`

	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.host", "0.0.0.0")
	v.SetDefault("service.public_port", 3002)
	v.SetDefault("service.admin_port", 8080)

	v.SetDefault("binance.api_key", "")
	v.SetDefault("binance.api_secret", "")
	v.SetDefault("binance.testnet", false)
	v.SetDefault("binance.base_url", "")
	v.SetDefault("binance.ws_base_url", "wss://fstream.binance.com")

	v.SetDefault("trading.quote_asset", "USDT")
	v.SetDefault("trading.leverage", 30)
	v.SetDefault("trading.balance_reserve", 1.0)
	v.SetDefault("trading.close_interval", "1m")
	v.SetDefault("trading.order_timeout", "10s")

	v.SetDefault("stream.ping_interval", "3m")
	v.SetDefault("stream.handshake_timeout", "10s")
	v.SetDefault("stream.read_timeout", "10m")

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.host", "localhost")
	v.SetDefault("tracing.port", 6831)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// NewConfig читает .env, configs/$CONFIG_FILE и переменные окружения
// (BINANCE_API_KEY -> binance.api_key). Файла может не быть: тогда дефолты + env.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = defaultConfigFile
	}
	configDir := os.Getenv(configDirENV)
	if configDir == "" {
		configDir = defaultConfigDir
	}

	return Load(filepath.Join(configDir, configFileName))
}

func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrapf(err, "read config %s", path)
			}
		}
	}

	cfg := &Config{}
	err := v.Unmarshal(cfg, viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	}))
	if err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	cfg.Trading.QuoteAsset = strings.ToUpper(strings.TrimSpace(cfg.Trading.QuoteAsset))
	cfg.Trading.CloseInterval = helper.NormInterval(cfg.Trading.CloseInterval)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Service.PublicPort <= 0:
		return fmt.Errorf("service.public_port must be > 0")
	case c.Service.AdminPort <= 0:
		return fmt.Errorf("service.admin_port must be > 0")
	case c.Service.PublicPort == c.Service.AdminPort:
		return fmt.Errorf("service.public_port and service.admin_port must differ")
	case c.Trading.QuoteAsset == "":
		return fmt.Errorf("trading.quote_asset is required")
	case c.Trading.Leverage <= 0:
		return fmt.Errorf("trading.leverage must be > 0")
	case c.Trading.BalanceReserve < 0:
		return fmt.Errorf("trading.balance_reserve must be >= 0")
	case c.Trading.CloseInterval == "":
		return fmt.Errorf("trading.close_interval is required")
	case !helper.ValidInterval(c.Trading.CloseInterval):
		return fmt.Errorf("trading.close_interval %q is not a Binance kline interval", c.Trading.CloseInterval)
	case c.Trading.OrderTimeout <= 0:
		return fmt.Errorf("trading.order_timeout must be > 0")
	}
	return nil
}

func (c *Config) PublicAddr() string {
	return fmt.Sprintf("%s:%d", c.Service.Host, c.Service.PublicPort)
}

func (c *Config) AdminAddr() string {
	return fmt.Sprintf("%s:%d", c.Service.Host, c.Service.AdminPort)
}

// Redacted: эффективный конфиг в yaml без секретов, для лога на старте.
func (c *Config) Redacted() string {
	cp := *c
	cp.Binance.APIKey = mask(cp.Binance.APIKey)
	cp.Binance.APISecret = mask(cp.Binance.APISecret)
	cp.Telegram.Token = mask(cp.Telegram.Token)

	out, err := yaml.Marshal(&cp)
	if err != nil {
		return fmt.Sprintf("<config marshal error: %v>", err)
	}
	return string(out)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
