// Package config loads finx settings from defaults, an optional YAML file
// and FINX_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/komsit37/finx/pkg/finx/convert"
	"github.com/komsit37/finx/pkg/finx/fxrate"
	"github.com/komsit37/finx/pkg/finx/provider"
)

const EnvPrefix = "FINX"

type Config struct {
	Log          LogConfig          `mapstructure:"log"`
	Provider     ProviderConfig     `mapstructure:"provider"`
	ExchangeRate ExchangeRateConfig `mapstructure:"exchange_rate"`
	Conversion   ConversionConfig   `mapstructure:"conversion"`
	Indices      IndicesConfig      `mapstructure:"indices"`
	Server       ServerConfig       `mapstructure:"server"`
	Output       OutputConfig       `mapstructure:"output"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
}

type ProviderConfig struct {
	BaseURL   string        `mapstructure:"base_url" validate:"required,url"`
	UserAgent string        `mapstructure:"user_agent" validate:"required"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// ExchangeRateConfig configures the USD->INR rate source. An empty APIKey
// leaves every eligible payload unconverted.
type ExchangeRateConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type ConversionConfig struct {
	Symbols []string `mapstructure:"symbols" validate:"dive,required"`
}

type IndicesConfig struct {
	File        string `mapstructure:"file"`
	Concurrency int    `mapstructure:"concurrency" validate:"min=1,max=16"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
	// RateLimit is requests per minute per client IP; 0 disables it.
	RateLimit int `mapstructure:"rate_limit" validate:"min=0"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" validate:"oneof=json yaml yml table syms"`
	Pretty bool   `mapstructure:"pretty"`
	Color  bool   `mapstructure:"color"`
}

// SetDefaults registers every key so environment variables can override it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("provider.base_url", provider.DefaultBaseURL)
	v.SetDefault("provider.user_agent", provider.DefaultUserAgent)
	v.SetDefault("provider.timeout", provider.DefaultTimeout)
	v.SetDefault("exchange_rate.base_url", fxrate.DefaultBaseURL)
	v.SetDefault("exchange_rate.api_key", "")
	v.SetDefault("exchange_rate.timeout", fxrate.DefaultTimeout)
	v.SetDefault("conversion.symbols", convert.DefaultSymbols)
	v.SetDefault("indices.file", "")
	v.SetDefault("indices.concurrency", 1)
	v.SetDefault("server.addr", ":5003")
	v.SetDefault("server.rate_limit", 60)
	v.SetDefault("output.format", "json")
	v.SetDefault("output.pretty", false)
	v.SetDefault("output.color", false)
}

// Load exports the dotenv files (.env when none are named and it exists)
// without overriding variables already set, then resolves the
// configuration on v. path may be empty.
func Load(v *viper.Viper, path string, dotenv ...string) (*Config, error) {
	if err := godotenv.Load(dotenv...); err != nil && len(dotenv) > 0 {
		return nil, fmt.Errorf("load env: %w", err)
	}
	return Read(v, path)
}

// Read resolves the configuration on v without touching .env.
func Read(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Output.Format = strings.ToLower(cfg.Output.Format)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
