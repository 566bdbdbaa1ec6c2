// Package config loads the process configuration from WALLETKIT_* environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/gabapcia/walletkit/internal/pkg/validator"

	"github.com/kelseyhightower/envconfig"
)

const prefix = "WALLETKIT"

// Config is everything cmd/walletkit needs to assemble a system.
type Config struct {
	LogLevel string `split_words:"true" default:"info" validate:"oneof=debug info warn error"`

	TelemetryEnabled bool   `split_words:"true" default:"false"`
	ServiceName      string `split_words:"true" default:"walletkit" validate:"required"`

	// Leave RedisAddr empty to keep bundles and checkpoints in memory.
	RedisAddr     string `split_words:"true"`
	RedisUsername string `split_words:"true"`
	RedisPassword string `split_words:"true"`
	RedisDB       int    `split_words:"true" default:"0" validate:"gte=0"`

	BlocksetEndpoint string `split_words:"true" default:"https://api.blockset.com" validate:"required,url"`
	BlocksetToken    string `split_words:"true"`

	// EthereumEndpoint switches Ethereum to a JSON-RPC node instead of blockset.
	EthereumEndpoint   string `split_words:"true" validate:"omitempty,url"`
	EthereumChainID    int64  `split_words:"true" default:"1" validate:"gt=0"`
	EthereumStartBlock uint64 `split_words:"true"`

	HTTPTimeout  time.Duration `split_words:"true" default:"30s" validate:"gt=0"`
	HTTPRetryMax int           `split_words:"true" default:"4" validate:"gte=0"`

	// SyncAttempts bounds how many times a sync pass retries a failed client query.
	SyncAttempts uint `split_words:"true" default:"3" validate:"gte=1"`

	Mainnet    bool          `split_words:"true" default:"true"`
	Networks   []string      `split_words:"true" default:"bitcoin,ethereum,tezos" validate:"required,min=1,dive,oneof=bitcoin ethereum tezos"`
	SyncMode   string        `split_words:"true" default:"API_ONLY" validate:"oneof=API_ONLY API_WITH_P2P_SUBMIT P2P_WITH_API_SYNC P2P_ONLY"`
	SyncPeriod time.Duration `split_words:"true" default:"1m" validate:"gt=0"`

	Path             string    `split_words:"true" default:"walletkit" validate:"required"`
	PaperKey         string    `split_words:"true" validate:"required"`
	AccountTimestamp time.Time `split_words:"true" default:"2017-01-01T00:00:00Z"`
	AccountUIDS      string    `split_words:"true" default:"default"`
}

// Load reads WALLETKIT_* variables and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read configuration: %w", err)
	}

	if err := validator.Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// UsesRedis reports whether a redis server is configured.
func (c Config) UsesRedis() bool {
	return c.RedisAddr != ""
}
