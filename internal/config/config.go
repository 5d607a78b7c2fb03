// Package config loads server configuration from YAML files and the
// environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root server configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Game     GameConfig     `mapstructure:"game"`
	Data     DataConfig     `mapstructure:"data"`
}

// ServerConfig holds the listener settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds the result-store connection settings. An empty URL
// disables persistence.
type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConns       int32         `mapstructure:"max_conns"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GameConfig holds the match parameters.
type GameConfig struct {
	DeckSize     int `mapstructure:"deck_size"`
	HandSize     int `mapstructure:"hand_size"`
	PrizeCount   int `mapstructure:"prize_count"`
	MaxMulligans int `mapstructure:"max_mulligans"`
}

// DataConfig points at the card list and deck-list files.
type DataConfig struct {
	Cards string `mapstructure:"cards"`
	Decks string `mapstructure:"decks"`
}

// Load reads configuration from the given file, layering PTCG_-prefixed
// environment variables on top. A missing file falls back to defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PTCG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.connect_timeout", 5*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("game.deck_size", 60)
	v.SetDefault("game.hand_size", 7)
	v.SetDefault("game.prize_count", 6)
	v.SetDefault("game.max_mulligans", 5)

	v.SetDefault("data.cards", "data/cards.json")
	v.SetDefault("data.decks", "data/decks.yaml")
}

func (c *Config) validate() error {
	if c.Game.DeckSize < c.Game.HandSize+c.Game.PrizeCount {
		return fmt.Errorf("deck_size %d cannot cover hand_size %d plus prize_count %d",
			c.Game.DeckSize, c.Game.HandSize, c.Game.PrizeCount)
	}
	if c.Game.MaxMulligans < 0 {
		return fmt.Errorf("max_mulligans must not be negative")
	}
	return nil
}
