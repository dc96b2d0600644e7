package cli

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the environment defaults of the hfsm command. Flags override
// every field.
type Config struct {
	LogLevel string `env:"HFSM_LOG_LEVEL" envDefault:"info"`
	TickRate int    `env:"HFSM_TICK_RATE" envDefault:"60"`
	Addr     string `env:"HFSM_ADDR" envDefault:":8080"`

	RedisAddr     string        `env:"HFSM_REDIS_ADDR"`
	RedisPassword string        `env:"HFSM_REDIS_PASSWORD"`
	RedisDB       int           `env:"HFSM_REDIS_DB" envDefault:"0"`
	SnapshotKey   string        `env:"HFSM_SNAPSHOT_KEY" envDefault:"default"`
	SnapshotTTL   time.Duration `env:"HFSM_SNAPSHOT_TTL" envDefault:"0s"`
	Autosave      time.Duration `env:"HFSM_AUTOSAVE" envDefault:"10s"`

	// EncryptionKey is a base64 AES-256 key sealing saved snapshots.
	EncryptionKey string   `env:"HFSM_ENCRYPTION_KEY"`
	ExcludeValues []string `env:"HFSM_EXCLUDE_VALUES" envSeparator:","`
}

// LoadConfig parses Config from the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
