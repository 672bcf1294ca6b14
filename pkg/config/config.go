package config

import (
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	DSN     string        `toml:"dsn"`
	Scraper ScraperConfig `toml:"scraper"`
	Logging LoggingConfig `toml:"logging"`
}

type ScraperConfig struct {
	Provider   string `toml:"provider"`
	APIKey     string `toml:"api_key"`
	Proxy      string `toml:"proxy"`
	Delay      string `toml:"delay"`
	Timeout    string `toml:"timeout"`
	Retry      bool   `toml:"retry"`
	Interval   string `toml:"interval"`
	RetryEvery string `toml:"retry_every"`
	QueueFile  string `toml:"queue_file"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	cfg.Scraper.Provider = "serper"
	cfg.Scraper.Timeout = "10s"
	cfg.Scraper.Interval = "24h"
	cfg.Scraper.RetryEvery = "1h"
	cfg.Scraper.QueueFile = "data/failed_queue.json"
	cfg.Logging.Format = "text"
	cfg.Logging.Level = "info"

	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Proxies splits the proxy setting into one URL per line, blank lines dropped.
func (c *ScraperConfig) Proxies() []string {
	var proxies []string
	for _, line := range strings.Split(c.Proxy, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line != "" {
			proxies = append(proxies, line)
		}
	}
	return proxies
}

func (c *ScraperConfig) GetDelay() time.Duration {
	return parseDuration(c.Delay, 0)
}

func (c *ScraperConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 10*time.Second)
}

func (c *ScraperConfig) GetInterval() time.Duration {
	return parseDuration(c.Interval, 24*time.Hour)
}

func (c *ScraperConfig) GetRetryEvery() time.Duration {
	return parseDuration(c.RetryEvery, time.Hour)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
