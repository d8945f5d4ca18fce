/*
config.go - Application configuration

PURPOSE:
  Loads server configuration from a TOML file and environment. Env var
  overrides use prefix TRADEBOOK_ with dots replaced by underscores
  (e.g. TRADEBOOK_STORE_BACKEND).

PRECEDENCE:
  defaults < config file < environment. A .env file in the working
  directory is loaded into the environment by cmd/server before this
  runs, so it participates at the env layer.

SEE ALSO:
  - cmd/server/main.go: where the loaded config is wired
*/
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Redis     RedisConfig
	Artifacts ArtifactsConfig
	Log       LogConfig
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port int
}

// StoreConfig selects and parameterizes the persistence backend.
type StoreConfig struct {
	// Backend is "jsonfile" or "sqlite".
	Backend    string
	DataDir    string
	SQLitePath string
}

// RedisConfig holds remote mirror settings. Mirroring is off unless
// Enabled is set.
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// ArtifactsConfig holds output directories for generated documents.
type ArtifactsConfig struct {
	ReceiptsDir string
	BillsDir    string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from file and env.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("store.backend", "jsonfile")
	v.SetDefault("store.datadir", "data")
	v.SetDefault("store.sqlitepath", "tradebook.db")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("artifacts.receiptsdir", "receipts")
	v.SetDefault("artifacts.billsdir", "bills")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetConfigType("toml")
	v.SetConfigName("tradebook")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TRADEBOOK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// config file is optional
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Store.Backend != "jsonfile" && c.Store.Backend != "sqlite" {
		return Config{}, fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return c, nil
}
