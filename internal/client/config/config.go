// Package config loads runtime settings for the ReceitaSecreta CLI.
// Sources are layered: defaults, then environment, then an optional JSON
// file, then command-line flags. Later sources win.
package config

import "time"

// Config holds runtime settings for the client.
//
// Fields:
//   - BaseURL: base endpoint of the backend REST API.
//   - CredentialsDSN: path of the local SQLite credential store.
//   - RedisAddr/RedisDB: optional redis cache; empty addr selects the
//     in-memory cache.
//   - WatchInterval: how often the session watcher compares the stored
//     token to in-memory state.
//   - InitFloor: minimum duration of session hydration, so interactive
//     startup does not flicker. Zero disables the floor.
type Config struct {
	BaseURL        string        `env:"RECEITA_BASE_URL"`
	CredentialsDSN string        `env:"RECEITA_CREDENTIALS_DB"`
	RedisAddr      string        `env:"RECEITA_REDIS_ADDR"`
	RedisDB        int           `env:"RECEITA_REDIS_DB"`
	WatchInterval  time.Duration `env:"RECEITA_WATCH_INTERVAL"`
	InitFloor      time.Duration `env:"RECEITA_INIT_FLOOR"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8080"
	c.CredentialsDSN = "receitasecreta.db"
	c.RedisAddr = ""
	c.RedisDB = 0
	c.WatchInterval = time.Second
	c.InitFloor = 300 * time.Millisecond
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, JSON (if present) and command-line flags (if
// present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
