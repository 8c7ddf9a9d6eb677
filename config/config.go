package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/lukehollenback/mtgox/exchange/mtgox"
	"github.com/shopspring/decimal"
)

//
// Config holds the command's settings. Every field can be set through the environment; a .env file
// in the working directory is read first if one exists.
//
type Config struct {
	Username      string        `env:"MTGOX_USERNAME" env-description:"Account name sent with private requests"`
	Password      string        `env:"MTGOX_PASSWORD" env-description:"Account password sent with private requests"`
	Verbose       bool          `env:"MTGOX_VERBOSE" env-default:"true" env-description:"Log a notice before placing orders"`
	Timeout       time.Duration `env:"MTGOX_TIMEOUT" env-default:"10s" env-description:"Round trip timeout"`
	BaseURL       string        `env:"MTGOX_BASE_URL" env-default:"https://mtgox.com" env-description:"Exchange HTTPS host"`
	StreamURL     string        `env:"MTGOX_STREAM_URL" env-default:"wss://websocket.mtgox.com/mtgox" env-description:"Exchange streaming feed"`
	MinimumAmount string        `env:"MTGOX_MINIMUM_AMOUNT" env-default:"1" env-description:"Smallest order size in BTC"`
	CoinbaseURL   string        `env:"COINBASE_PRO_BASE_URL" env-description:"Coinbase Pro API used for reference prices"`
}

//
// Load reads the configuration from the environment, after loading the provided .env files (a
// missing file is not an error).
//
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration from the environment: %w", err)
	}

	return &cfg, nil
}

//
// Client converts the configuration into the exchange client's configuration.
//
func (o *Config) Client() (mtgox.Config, error) {
	minimum, err := decimal.NewFromString(o.MinimumAmount)
	if err != nil {
		return mtgox.Config{}, fmt.Errorf("invalid minimum amount %q: %w", o.MinimumAmount, err)
	}

	return mtgox.Config{
		Username:      o.Username,
		Password:      o.Password,
		Verbose:       o.Verbose,
		Timeout:       o.Timeout,
		BaseURL:       o.BaseURL,
		StreamURL:     o.StreamURL,
		MinimumAmount: minimum,
	}, nil
}

//
// Usage returns a description of every supported environment variable.
//
func Usage() string {
	text, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}

	return text
}
