package config

import "time"

// Config holds runtime settings for the scalehub CLI.
//
// Fields:
//   - ServerURL: base URL of the hub HTTP API.
//   - OnlineCheckInterval: how often the client probes hub reachability.
//   - RequestTimeout: per-request HTTP timeout.
//   - DatabasePath: location of the local SQLite state file.
//   - RateLimit: outgoing API requests per second (0 selects the client default).
type Config struct {
	ServerURL           string
	DatabasePath        string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	RateLimit           float64
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DatabasePath = "scalehub.db"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.RateLimit = 20
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
